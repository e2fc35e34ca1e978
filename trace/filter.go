package trace

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"gonum.org/v1/gonum/floats"
)

// Filter errors.
var (
	// ErrUnknownFilterType indicates an unsupported FilterSpec type.
	ErrUnknownFilterType = errors.New("trace: unknown filter type")
	// ErrBadCorner indicates a corner frequency outside (0, rate/2).
	ErrBadCorner = errors.New("trace: corner frequency outside the Nyquist band")
)

// FilterSpec describes a Butterworth filter pass.
//
// Type is "lowpass", "highpass" or "bandpass". Bandpass uses FreqMin and
// FreqMax as the band edges; the single-sided types use the matching one
// of the pair. Corners is the filter order per edge (default 4).
// ZeroPhase runs the filter forward and backward, doubling the effective
// order and cancelling the phase delay.
type FilterSpec struct {
	Type      string
	FreqMin   float64
	FreqMax   float64
	Corners   int
	ZeroPhase bool
}

// Filter applies spec to the trace samples in place.
func (t *Trace) Filter(spec FilterSpec) error {
	if t.Stats.SamplingRate <= 0 {
		return ErrNoSamplingRate
	}

	if len(t.Data) == 0 {
		return nil
	}

	coeffs, err := designCascade(spec, t.Stats.SamplingRate)
	if err != nil {
		return err
	}

	chain := biquad.NewChain(coeffs)
	chain.ProcessBlock(t.Data)

	if spec.ZeroPhase {
		floats.Reverse(t.Data)
		chain.Reset()
		chain.ProcessBlock(t.Data)
		floats.Reverse(t.Data)
	}

	return nil
}

func designCascade(spec FilterSpec, rate float64) ([]biquad.Coefficients, error) {
	order := spec.Corners
	if order <= 0 {
		order = 4
	}

	nyquist := rate / 2

	checkEdge := func(f float64) error {
		if f <= 0 || f >= nyquist {
			return fmt.Errorf("%w: %g Hz at rate %g Hz", ErrBadCorner, f, rate)
		}

		return nil
	}

	switch spec.Type {
	case "lowpass":
		if err := checkEdge(spec.FreqMax); err != nil {
			return nil, err
		}

		return design.ButterworthLP(spec.FreqMax, order, rate), nil
	case "highpass":
		if err := checkEdge(spec.FreqMin); err != nil {
			return nil, err
		}

		return design.ButterworthHP(spec.FreqMin, order, rate), nil
	case "bandpass":
		if err := checkEdge(spec.FreqMin); err != nil {
			return nil, err
		}

		if err := checkEdge(spec.FreqMax); err != nil {
			return nil, err
		}

		hp := design.ButterworthHP(spec.FreqMin, order, rate)
		lp := design.ButterworthLP(spec.FreqMax, order, rate)

		return append(hp, lp...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilterType, spec.Type)
	}
}
