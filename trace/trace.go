package trace

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Trace errors.
var (
	// ErrInvalidFactor indicates a non-positive decimation factor.
	ErrInvalidFactor = errors.New("trace: decimation factor must be >= 1")
	// ErrNoSamplingRate indicates a trace without a positive sampling rate.
	ErrNoSamplingRate = errors.New("trace: sampling rate must be positive")
)

// Trace is one continuous waveform with its metadata.
type Trace struct {
	Data  []float64
	Stats Stats
}

// New creates a trace from raw samples and a stats record.
func New(data []float64, stats Stats) *Trace {
	return &Trace{Data: data, Stats: stats}
}

// ID returns the full channel identity "NET.STA.LOC.CHA".
func (t *Trace) ID() string {
	return fmt.Sprintf("%s.%s.%s.%s",
		t.Stats.Network, t.Stats.Station, t.Stats.Location, t.Stats.Channel)
}

// EndTime returns the time of the last sample.
func (t *Trace) EndTime() time.Time {
	if len(t.Data) == 0 || t.Stats.SamplingRate <= 0 {
		return t.Stats.StartTime
	}

	d := float64(len(t.Data)-1) / t.Stats.SamplingRate

	return t.Stats.StartTime.Add(secondsToDuration(d))
}

// Component returns the last character of the channel code, or 0 for an
// empty channel.
func (t *Trace) Component() byte {
	if t.Stats.Channel == "" {
		return 0
	}

	return t.Stats.Channel[len(t.Stats.Channel)-1]
}

// Trim cuts the trace to the closed interval [start, end]. The interval
// is intersected with the available data; trimming never pads.
func (t *Trace) Trim(start, end time.Time) {
	if t.Stats.SamplingRate <= 0 || len(t.Data) == 0 {
		return
	}

	rate := t.Stats.SamplingRate

	i0 := int(math.Ceil(start.Sub(t.Stats.StartTime).Seconds()*rate - 1e-9))
	i1 := int(math.Floor(end.Sub(t.Stats.StartTime).Seconds()*rate + 1e-9))

	if i0 < 0 {
		i0 = 0
	}

	if i1 > len(t.Data)-1 {
		i1 = len(t.Data) - 1
	}

	if i0 > i1 {
		t.Data = t.Data[:0]
		return
	}

	t.Stats.StartTime = t.Stats.StartTime.Add(secondsToDuration(float64(i0) / rate))
	t.Data = t.Data[i0 : i1+1]
}

// Decimate reduces the sampling rate by an integer factor after applying
// an anti-alias lowpass at 40% of the new rate. Factor 1 is a no-op.
func (t *Trace) Decimate(factor int) error {
	if factor < 1 {
		return ErrInvalidFactor
	}

	if factor == 1 {
		return nil
	}

	if t.Stats.SamplingRate <= 0 {
		return ErrNoSamplingRate
	}

	newRate := t.Stats.SamplingRate / float64(factor)

	if err := t.Filter(FilterSpec{
		Type:      "lowpass",
		FreqMax:   0.4 * newRate,
		Corners:   4,
		ZeroPhase: true,
	}); err != nil {
		return err
	}

	n := (len(t.Data) + factor - 1) / factor
	out := make([]float64, 0, n)

	for i := 0; i < len(t.Data); i += factor {
		out = append(out, t.Data[i])
	}

	t.Data = out
	t.Stats.SamplingRate = newRate

	return nil
}

// Reverse flips the sample order in place. The start time is unchanged;
// callers redefine time fields as needed.
func (t *Trace) Reverse() {
	floats.Reverse(t.Data)
}

// Negate multiplies all samples by -1 in place.
func (t *Trace) Negate() {
	floats.Scale(-1, t.Data)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
