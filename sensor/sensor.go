// Package sensor describes the simulated devices of the fleet: where each
// one publishes, when its reading needs attention and how a reading is
// drawn.
package sensor

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// WarnPrefix is the topic root for attention flags ("OK" or "CHECK").
	WarnPrefix = "home/sensors/forgot/"
	// TemperaturePrefix is the topic root for the raw readings.
	TemperaturePrefix = "home/sensors/temperature/"
	// TopicFilter subscribes to everything the fleet publishes.
	TopicFilter = "home/sensors/#"

	StatusOK    = "OK"
	StatusCheck = "CHECK"
)

// Direction tells on which side of a threshold a reading needs attention.
type Direction int

const (
	DirectionAbove Direction = iota + 1
	DirectionBelow
)

// Threshold is the level at which a reading needs attention.
type Threshold struct {
	Direction Direction
	Value     float64
}

// Above returns a threshold exceeded by readings strictly greater than v.
func Above(v float64) Threshold {
	return Threshold{Direction: DirectionAbove, Value: v}
}

// Below returns a threshold exceeded by readings strictly less than v.
func Below(v float64) Threshold {
	return Threshold{Direction: DirectionBelow, Value: v}
}

// Exceeded reports whether reading needs attention.
func (t Threshold) Exceeded(reading float64) bool {
	switch t.Direction {
	case DirectionAbove:
		return reading > t.Value
	case DirectionBelow:
		return reading < t.Value
	default:
		return false
	}
}

func (t Threshold) String() string {
	switch t.Direction {
	case DirectionAbove:
		return fmt.Sprintf("above %s", FormatReading(t.Value))
	case DirectionBelow:
		return fmt.Sprintf("below %s", FormatReading(t.Value))
	default:
		return "none"
	}
}

// Descriptor is one simulated sensor.
type Descriptor struct {
	Name      string
	WarnTopic string
	TempTopic string
	Threshold Threshold
	// Sample draws a new reading in degrees Celsius.
	Sample func() float64
}

// Verdict returns the attention flag published for reading.
func (d Descriptor) Verdict(reading float64) string {
	if d.Threshold.Exceeded(reading) {
		return StatusCheck
	}
	return StatusOK
}

// Catalog returns the fixed set of simulated sensors. Readings are drawn
// from rng, which must not be shared with other goroutines.
func Catalog(rng *rand.Rand) []Descriptor {
	return []Descriptor{
		newDescriptor("Refrigerator Sensor", "refrigerator/1", Below(20), normal(rng, 21, 1.44)),
		newDescriptor("Oven Sensor", "oven/1", Above(25), normal(rng, 23, 1.44)),
		newDescriptor("Bedroom Window Sensor", "bedroom/window/1", Below(20), normal(rng, 21, 1.44)),
		newDescriptor("Living Room Window (1) Sensor", "livingroom/window/1", Below(20), normal(rng, 21, 1.44)),
		newDescriptor("Living Room Window (2) Sensor", "livingroom/window/2", Below(20), normal(rng, 21, 1.44)),
	}
}

func newDescriptor(name, suffix string, threshold Threshold, sample func() float64) Descriptor {
	return Descriptor{
		Name:      name,
		WarnTopic: WarnPrefix + suffix,
		TempTopic: TemperaturePrefix + suffix,
		Threshold: threshold,
		Sample:    sample,
	}
}

func normal(rng *rand.Rand, mean, stddev float64) func() float64 {
	return func() float64 {
		return mean + stddev*rng.NormFloat64()
	}
}

// TopicKind tells which of a sensor's two topics a message arrived on.
type TopicKind int

const (
	TopicWarn TopicKind = iota + 1
	TopicTemperature
)

func (k TopicKind) String() string {
	switch k {
	case TopicWarn:
		return "warn"
	case TopicTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// FindByTopic resolves topic to the sensor publishing on it.
func FindByTopic(catalog []Descriptor, topic string) (Descriptor, TopicKind, bool) {
	for _, d := range catalog {
		switch topic {
		case d.WarnTopic:
			return d, TopicWarn, true
		case d.TempTopic:
			return d, TopicTemperature, true
		}
	}
	return Descriptor{}, 0, false
}

// FormatReading renders a reading with the shortest exact decimal form,
// always keeping a fractional part: 21 becomes "21.0".
func FormatReading(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// ParseReading parses a reading published on a temperature topic.
func ParseReading(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse reading %q: %w", s, err)
	}
	return v, nil
}
