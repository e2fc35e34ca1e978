package trace

import (
	"errors"
	"math"
	"testing"
)

func sine(freqHz, rate float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / rate
	for i := range out {
		out[i] = math.Sin(step * float64(i))
	}

	return out
}

// rms over the second half of the signal, past the filter transient.
func settledRMS(data []float64) float64 {
	var sum float64

	half := data[len(data)/2:]
	for _, v := range half {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(half)))
}

func TestFilterLowpassAttenuatesStopband(t *testing.T) {
	tr := New(sine(20, 100, 2000), Stats{SamplingRate: 100})

	err := tr.Filter(FilterSpec{Type: "lowpass", FreqMax: 2, Corners: 4})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	if rms := settledRMS(tr.Data); rms > 0.05 {
		t.Fatalf("stopband rms = %v, want < 0.05", rms)
	}
}

func TestFilterLowpassKeepsPassband(t *testing.T) {
	tr := New(sine(0.5, 100, 4000), Stats{SamplingRate: 100})

	err := tr.Filter(FilterSpec{Type: "lowpass", FreqMax: 10, Corners: 4})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	want := 1 / math.Sqrt2
	if rms := settledRMS(tr.Data); math.Abs(rms-want) > 0.1 {
		t.Fatalf("passband rms = %v, want about %v", rms, want)
	}
}

func TestFilterHighpassRemovesOffset(t *testing.T) {
	data := make([]float64, 2000)
	for i := range data {
		data[i] = 1
	}

	tr := New(data, Stats{SamplingRate: 100})

	err := tr.Filter(FilterSpec{Type: "highpass", FreqMin: 1, Corners: 2})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	if rms := settledRMS(tr.Data); rms > 0.01 {
		t.Fatalf("DC residue rms = %v, want < 0.01", rms)
	}
}

func TestFilterBandpass(t *testing.T) {
	// 0.05 Hz and 20 Hz riders on a 2 Hz carrier; the band keeps only
	// the carrier.
	n := 8000
	rate := 100.0
	lo := sine(0.05, rate, n)
	mid := sine(2, rate, n)
	hi := sine(20, rate, n)

	data := make([]float64, n)
	for i := range data {
		data[i] = lo[i] + mid[i] + hi[i]
	}

	tr := New(data, Stats{SamplingRate: rate})

	err := tr.Filter(FilterSpec{Type: "bandpass", FreqMin: 0.5, FreqMax: 5, Corners: 2})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	want := 1 / math.Sqrt2
	if rms := settledRMS(tr.Data); math.Abs(rms-want) > 0.15 {
		t.Fatalf("band rms = %v, want about %v", rms, want)
	}
}

func TestFilterZeroPhaseKeepsAlignment(t *testing.T) {
	// An impulse filtered zero-phase stays centered on its position.
	n := 1001
	data := make([]float64, n)
	data[500] = 1

	tr := New(data, Stats{SamplingRate: 100})

	err := tr.Filter(FilterSpec{Type: "lowpass", FreqMax: 10, Corners: 4, ZeroPhase: true})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	peak := 0
	for i, v := range tr.Data {
		if math.Abs(v) > math.Abs(tr.Data[peak]) {
			peak = i
		}
	}

	if peak < 495 || peak > 505 {
		t.Fatalf("zero-phase peak moved to %d, want near 500", peak)
	}
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		spec FilterSpec
		want error
	}{
		{"unknown type", FilterSpec{Type: "notch", FreqMax: 1}, ErrUnknownFilterType},
		{"corner above nyquist", FilterSpec{Type: "lowpass", FreqMax: 60}, ErrBadCorner},
		{"corner zero", FilterSpec{Type: "highpass"}, ErrBadCorner},
		{"bandpass bad upper", FilterSpec{Type: "bandpass", FreqMin: 1, FreqMax: 50}, ErrBadCorner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(sine(1, 100, 100), Stats{SamplingRate: 100})

			if err := tr.Filter(tt.spec); !errors.Is(err, tt.want) {
				t.Fatalf("Filter = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFilterNoSamplingRate(t *testing.T) {
	tr := New([]float64{1, 2}, Stats{})

	if err := tr.Filter(FilterSpec{Type: "lowpass", FreqMax: 1}); !errors.Is(err, ErrNoSamplingRate) {
		t.Fatalf("Filter = %v, want ErrNoSamplingRate", err)
	}
}
