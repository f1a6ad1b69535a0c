package fleet

import (
	"slices"
	"sync"
	"time"
)

// Report is the outcome of one device cycle.
type Report struct {
	Device string `json:"device"`
	Index  int    `json:"index"`
	// Verified is false when the module configuration could not be
	// verified and nothing was published.
	Verified  bool      `json:"verified"`
	Reading   float64   `json:"reading"`
	Attention bool      `json:"attention"`
	At        time.Time `json:"at"`
}

// Board keeps the latest report of every device. It is safe for
// concurrent use.
type Board struct {
	mu         sync.RWMutex
	reports    map[int]Report
	passes     int
	lastPass   string
	lastPassAt time.Time
}

func NewBoard() *Board {
	return &Board{reports: make(map[int]Report)}
}

// Record stores r as the latest report of its device.
func (b *Board) Record(r Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports[r.Index] = r
}

// PassCompleted marks the end of a full pass over the catalog.
func (b *Board) PassCompleted(id string, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passes++
	b.lastPass = id
	b.lastPassAt = at
}

// Snapshot is a point-in-time copy of the board.
type Snapshot struct {
	Passes     int       `json:"passes"`
	LastPass   string    `json:"last_pass,omitempty"`
	LastPassAt time.Time `json:"last_pass_at,omitzero"`
	Reports    []Report  `json:"reports"`
}

// Snapshot returns the reports ordered by device index.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Passes:     b.passes,
		LastPass:   b.lastPass,
		LastPassAt: b.lastPassAt,
		Reports:    make([]Report, 0, len(b.reports)),
	}
	for _, r := range b.reports {
		s.Reports = append(s.Reports, r)
	}
	slices.SortFunc(s.Reports, func(a, b Report) int {
		return a.Index - b.Index
	})
	return s
}
