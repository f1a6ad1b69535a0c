package fleet

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"i4.energy/across/sensorfleet/sensor"
)

// DefaultInterval is the pause between two passes over the catalog.
const DefaultInterval = 10 * time.Second

// Fleet wakes every sensor of the catalog in turn, forever.
type Fleet struct {
	controller *Controller
	catalog    []sensor.Descriptor
	interval   time.Duration
	board      *Board
	logger     *slog.Logger
}

// Option configures a Fleet.
type Option func(*Fleet)

func WithInterval(d time.Duration) Option {
	return func(f *Fleet) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithBoard records every report on b.
func WithBoard(b *Board) Option {
	return func(f *Fleet) {
		f.board = b
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Fleet) {
		if l != nil {
			f.logger = l
		}
	}
}

func New(controller *Controller, catalog []sensor.Descriptor, opts ...Option) *Fleet {
	f := &Fleet{
		controller: controller,
		catalog:    catalog,
		interval:   DefaultInterval,
		board:      NewBoard(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Board returns the board the fleet records on.
func (f *Fleet) Board() *Board {
	return f.board
}

// Run makes passes until ctx is done or a pass fails. It returns the
// context error on cancellation and a *FatalError otherwise.
func (f *Fleet) Run(ctx context.Context) error {
	for {
		if err := f.Pass(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.interval):
		}
	}
}

// Pass runs one cycle for every sensor of the catalog, in order. An
// unverified sensor is skipped; a fatal failure ends the pass.
func (f *Fleet) Pass(ctx context.Context) error {
	id := uuid.NewString()
	logger := f.logger.With("pass", id)
	controller := f.controller.withLogger(logger.With("component", "controller"))

	for i, d := range f.catalog {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Info("device woke up", "device", d.Name)
		report, err := controller.Cycle(ctx, i, d)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		f.board.Record(report)
		logger.Info("going to sleep", "device", d.Name)
	}

	f.board.PassCompleted(id, time.Now())
	logger.Debug("pass completed", "devices", len(f.catalog))
	return nil
}
