// Package testutil provides shared helpers for the package tests:
// tolerance assertions and builders for synthetic traces and component
// groups.
package testutil

import (
	"math"
	"time"

	"github.com/cwbudde/algo-seis/trace"
)

// T0 is the common start time of synthetic traces.
var T0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Sine generates a sine wave at the given frequency.
func Sine(freqHz, rate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / rate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Constant generates a constant-valued signal.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// NewTrace builds a trace at station STA with the given channel, data
// and sampling rate, starting at T0.
func NewTrace(channel string, data []float64, rate float64) *trace.Trace {
	st := trace.Stats{
		Network:      "XX",
		Station:      "STA",
		Location:     "",
		Channel:      channel,
		StartTime:    T0,
		SamplingRate: rate,
	}

	return trace.New(data, st)
}

// NewOnsetTrace builds a trace whose onset lies onsetSec seconds after
// its start time.
func NewOnsetTrace(channel string, data []float64, rate, onsetSec float64) *trace.Trace {
	tr := NewTrace(channel, data, rate)
	tr.Stats.Set(trace.Onset, T0.Add(time.Duration(onsetSec*float64(time.Second))))

	return tr
}

// ThreeComponent builds a Z/N/E group sharing one onset, back azimuth
// and inclination, with an impulse on every component.
func ThreeComponent(n int, rate, onsetSec, backAzimuth, inclination float64) trace.Collection {
	var c trace.Collection

	for _, comp := range []string{"HHZ", "HHN", "HHE"} {
		tr := NewOnsetTrace(comp, Impulse(n, n/2), rate, onsetSec)
		tr.Stats.Set(trace.BackAzimuth, backAzimuth)
		tr.Stats.Set(trace.Inclination, inclination)

		c = append(c, tr)
	}

	return c
}
