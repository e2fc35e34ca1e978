package rf

import (
	"errors"
	"time"
)

// Record errors.
var (
	// ErrNoOrigin indicates an event without any origin.
	ErrNoOrigin = errors.New("rf: event has no origin")
)

// Origin is one hypocenter solution of an event.
type Origin struct {
	Latitude  float64
	Longitude float64
	DepthKm   float64
	Time      time.Time
}

// Magnitude is one magnitude estimate of an event.
type Magnitude struct {
	Value float64
	Type  string
}

// Event is a seismic event with one or more origin and magnitude
// solutions. The preferred solution wins when designated; otherwise the
// first listed one is used.
type Event struct {
	ID                 string
	Origins            []Origin
	PreferredOrigin    *Origin
	Magnitudes         []Magnitude
	PreferredMagnitude *Magnitude
}

// Origin returns the preferred origin, falling back to the first one.
func (e *Event) Origin() (Origin, error) {
	if e.PreferredOrigin != nil {
		return *e.PreferredOrigin, nil
	}

	if len(e.Origins) > 0 {
		return e.Origins[0], nil
	}

	return Origin{}, ErrNoOrigin
}

// Magnitude returns the preferred magnitude, falling back to the first
// one. The second return value reports whether the event has any.
func (e *Event) Magnitude() (Magnitude, bool) {
	if e.PreferredMagnitude != nil {
		return *e.PreferredMagnitude, true
	}

	if len(e.Magnitudes) > 0 {
		return e.Magnitudes[0], true
	}

	return Magnitude{}, false
}

// Station is the receiver location.
type Station struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}
