// Package deconv removes the source wavelet from component groups,
// turning them into receiver functions.
//
// Given a group of 2 or 3 simultaneous components, the source component
// (usually L or Z) is windowed around the onset and deconvolved from
// every component of the group, including itself. Two domains are
// offered: frequency-domain water-level spectral division with Gaussian
// shaping, and time-domain least squares via Levinson recursion on the
// source autocorrelation. Both place the zero-lag spike of the result
// at a configurable delay after the start of the output traces.
package deconv

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-seis/trace"
)

// Deconvolution errors.
var (
	// ErrUnsupportedMode indicates an unknown deconvolution domain.
	ErrUnsupportedMode = errors.New("deconv: unsupported mode")
	// ErrNoSource indicates a group without a source component.
	ErrNoSource = errors.New("deconv: no source component in group")
	// ErrMissingOnset indicates a source trace without an onset field.
	ErrMissingOnset = errors.New("deconv: source trace has no onset")
	// ErrLengthMismatch indicates group members of unequal length or rate.
	ErrLengthMismatch = errors.New("deconv: group members differ in length or rate")
	// ErrEmptySource indicates an empty source window.
	ErrEmptySource = errors.New("deconv: source window contains no samples")
)

// Mode selects the deconvolution domain.
type Mode int

const (
	// Time solves the least-squares Toeplitz system in the time domain.
	Time Mode = iota
	// Freq performs water-level regularized spectral division.
	Freq
)

// ParseMode maps "time" or "freq" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "time":
		return Time, nil
	case "freq", "frequency":
		return Freq, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

type config struct {
	winStart   float64
	winEnd     float64
	shift      float64
	waterlevel float64
	gaussWidth float64
	ridge      float64
	taperAlpha float64
}

// Option configures a deconvolution pass.
type Option func(*config)

// WithSourceWindow sets the source wavelet window in seconds relative
// to the onset. Default (-10, 30).
func WithSourceWindow(start, end float64) Option {
	return func(cfg *config) {
		if end > start {
			cfg.winStart = start
			cfg.winEnd = end
		}
	}
}

// WithShift sets the delay of the zero-lag spike in the output,
// in seconds. Default 10.
func WithShift(s float64) Option {
	return func(cfg *config) {
		if s >= 0 {
			cfg.shift = s
		}
	}
}

// WithWaterlevel sets the spectral water level as a fraction of the
// source power maximum. Default 0.01. Frequency domain only.
func WithWaterlevel(wl float64) Option {
	return func(cfg *config) {
		if wl > 0 {
			cfg.waterlevel = wl
		}
	}
}

// WithGaussWidth sets the Gaussian low-pass width parameter in Hz.
// Zero disables the shaping filter. Default 5. Frequency domain only.
func WithGaussWidth(a float64) Option {
	return func(cfg *config) {
		if a >= 0 {
			cfg.gaussWidth = a
		}
	}
}

// WithRidge sets the diagonal-loading fraction of the normal equations.
// Default 0.01. Time domain only.
func WithRidge(r float64) Option {
	return func(cfg *config) {
		if r >= 0 {
			cfg.ridge = r
		}
	}
}

// WithTaper sets the Tukey taper fraction applied to the source window.
// Default 0.25.
func WithTaper(alpha float64) Option {
	return func(cfg *config) {
		if alpha >= 0 && alpha <= 1 {
			cfg.taperAlpha = alpha
		}
	}
}

func defaultConfig() config {
	return config{
		winStart:   -10,
		winEnd:     30,
		shift:      10,
		waterlevel: 0.01,
		gaussWidth: 5,
		ridge:      0.01,
		taperAlpha: 0.25,
	}
}

// Deconvolve removes the source wavelet from every trace of one
// component group and returns the replacement group. sourceComponents
// lists the channel-suffix letters designating the source; the first
// matching trace serves as source. The output traces start shift
// seconds before the onset.
func Deconvolve(c trace.Collection, mode Mode, sourceComponents string, opts ...Option) (trace.Collection, error) {
	if mode != Time && mode != Freq {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, mode)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	src := findSource(c, sourceComponents)
	if src == nil {
		return nil, fmt.Errorf("%w: suffixes %q", ErrNoSource, sourceComponents)
	}

	for _, tr := range c {
		if len(tr.Data) != len(src.Data) || tr.Stats.SamplingRate != src.Stats.SamplingRate {
			return nil, ErrLengthMismatch
		}
	}

	onset, ok := src.Stats.Time(trace.Onset)
	if !ok {
		return nil, ErrMissingOnset
	}

	kernel, err := sourceWindow(src, onset, cfg)
	if err != nil {
		return nil, err
	}

	rate := src.Stats.SamplingRate

	var out trace.Collection

	for _, tr := range c {
		var rf []float64

		switch mode {
		case Freq:
			rf, err = deconvolveFreq(tr.Data, kernel, rate, cfg)
		case Time:
			rf, err = deconvolveTime(tr.Data, kernel, rate, cfg)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", tr.ID(), err)
		}

		st := tr.Stats.Copy()
		st.StartTime = onset.Add(-time.Duration(cfg.shift * float64(time.Second)))

		out = append(out, trace.New(rf, st))
	}

	return out, nil
}

func findSource(c trace.Collection, suffixes string) *trace.Trace {
	for _, tr := range c {
		if strings.ContainsRune(suffixes, rune(tr.Component())) {
			return tr
		}
	}

	return nil
}

// sourceWindow extracts and tapers the source wavelet around the onset.
// The wavelet stays at its original sample position in a full-length
// zero array, so the deconvolution result is aligned to the onset.
func sourceWindow(src *trace.Trace, onset time.Time, cfg config) ([]float64, error) {
	rate := src.Stats.SamplingRate
	onsetIdx := onset.Sub(src.Stats.StartTime).Seconds() * rate

	i0 := int(onsetIdx + cfg.winStart*rate)
	i1 := int(onsetIdx + cfg.winEnd*rate)

	if i0 < 0 {
		i0 = 0
	}

	if i1 > len(src.Data) {
		i1 = len(src.Data)
	}

	if i1 <= i0 {
		return nil, ErrEmptySource
	}

	kernel := make([]float64, len(src.Data))
	seg := kernel[i0:i1]
	copy(seg, src.Data[i0:i1])

	if cfg.taperAlpha > 0 && len(seg) > 2 {
		coeffs, err := window.Tukey(len(seg), cfg.taperAlpha)
		if err != nil {
			return nil, fmt.Errorf("deconv: taper: %w", err)
		}

		vecmath.MulBlockInPlace(seg, coeffs)
	}

	return kernel, nil
}
