package deconv

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// deconvolveFreq performs water-level regularized spectral division
// with Gaussian shaping:
//
//	rf = IFFT(FFT(resp) * conj(S) / max(|S|^2, wl) * G * exp(-iw*shift))
//
// where S is the spectrum of the source kernel, wl the water level
// relative to the power maximum and G the Gaussian low pass.
func deconvolveFreq(resp, kernel []float64, rate float64, cfg config) ([]float64, error) {
	n := len(resp)
	fftSize := nextPowerOf2(n + len(kernel))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("deconv: failed to create FFT plan: %w", err)
	}

	respPadded := make([]complex128, fftSize)
	kernelPadded := make([]complex128, fftSize)

	for i, v := range resp {
		respPadded[i] = complex(v, 0)
	}

	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}

	respFreq := make([]complex128, fftSize)
	kernelFreq := make([]complex128, fftSize)

	if err := plan.Forward(respFreq, respPadded); err != nil {
		return nil, err
	}

	if err := plan.Forward(kernelFreq, kernelPadded); err != nil {
		return nil, err
	}

	power := spectralPower(kernelFreq)

	var peak float64
	for _, p := range power {
		if p > peak {
			peak = p
		}
	}

	if peak == 0 {
		return nil, ErrEmptySource
	}

	wl := cfg.waterlevel * peak
	df := rate / float64(fftSize)

	resultFreq := make([]complex128, fftSize)

	for i := range resultFreq {
		den := power[i]
		if den < wl {
			den = wl
		}

		// Signed bin frequency; the upper half of the spectrum carries
		// the negative frequencies.
		bin := i
		if i > fftSize/2 {
			bin = i - fftSize
		}

		f := float64(bin) * df
		omega := 2 * math.Pi * f

		gain := complex(1/den, 0)
		if cfg.gaussWidth > 0 {
			x := omega / (2 * cfg.gaussWidth)
			gain *= complex(math.Exp(-x*x), 0)
		}

		shift := cmplx.Exp(complex(0, -omega*cfg.shift))

		resultFreq[i] = respFreq[i] * cmplx.Conj(kernelFreq[i]) * gain * shift
	}

	resultTime := make([]complex128, fftSize)

	if err := plan.Inverse(resultTime, resultFreq); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for i := range result {
		result[i] = real(resultTime[i])
	}

	return result, nil
}

// spectralPower computes |X|^2 per bin on split real/imag planes.
func spectralPower(spec []complex128) []float64 {
	re := make([]float64, len(spec))
	im := make([]float64, len(spec))

	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}

	power := make([]float64, len(spec))
	vecmath.Power(power, re, im)

	return power
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
