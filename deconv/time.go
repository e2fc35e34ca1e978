package deconv

import (
	"errors"
)

// errSingular reports a Toeplitz system the recursion cannot solve.
var errSingular = errors.New("deconv: singular normal equations")

// deconvolveTime solves the least-squares deconvolution in the time
// domain. The normal equations have the source autocorrelation as a
// symmetric Toeplitz matrix; Levinson recursion solves them in O(n^2).
// Diagonal loading with cfg.ridge stabilizes the zero-lag term. The
// spike delay is realized by lagging the cross-correlation right-hand
// side by shift seconds.
func deconvolveTime(resp, kernel []float64, rate float64, cfg config) ([]float64, error) {
	n := len(resp)
	shiftN := int(cfg.shift * rate)

	r := autocorr(kernel, n)
	if r[0] == 0 {
		return nil, ErrEmptySource
	}

	r[0] *= 1 + cfg.ridge

	b := crosscorr(resp, kernel, n, shiftN)

	out, err := solveToeplitz(r, b)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// autocorr computes the kernel autocorrelation for lags 0..n-1.
func autocorr(kernel []float64, n int) []float64 {
	r := make([]float64, n)

	for lag := 0; lag < n && lag < len(kernel); lag++ {
		var sum float64
		for t := lag; t < len(kernel); t++ {
			sum += kernel[t] * kernel[t-lag]
		}

		r[lag] = sum
	}

	return r
}

// crosscorr computes sum_t resp[t]*kernel[t-i+shiftN] for i = 0..n-1,
// the correlation of the response with the kernel delayed so the spike
// lands shiftN samples into the output.
func crosscorr(resp, kernel []float64, n, shiftN int) []float64 {
	b := make([]float64, n)

	for i := range b {
		off := i - shiftN

		var sum float64

		for k, kv := range kernel {
			t := k + off
			if t < 0 {
				continue
			}

			if t >= len(resp) {
				break
			}

			sum += resp[t] * kv
		}

		b[i] = sum
	}

	return b
}

// solveToeplitz solves T x = b for a symmetric Toeplitz matrix with
// first column r by Levinson recursion (Golub & Van Loan alg. 4.7.2).
func solveToeplitz(r, b []float64) ([]float64, error) {
	n := len(r)
	if n == 0 || r[0] == 0 {
		return nil, errSingular
	}

	// Normalize to a unit diagonal.
	rn := make([]float64, n)
	for i := range rn {
		rn[i] = r[i] / r[0]
	}

	x := make([]float64, n)
	y := make([]float64, n)

	x[0] = b[0] / r[0]

	if n == 1 {
		return x, nil
	}

	y[0] = -rn[1]
	alpha := -rn[1]
	beta := 1.0

	for k := 1; k < n; k++ {
		beta *= 1 - alpha*alpha
		if beta == 0 {
			return nil, errSingular
		}

		var dot float64
		for i := 1; i <= k; i++ {
			dot += rn[i] * x[k-i]
		}

		mu := (b[k]/r[0] - dot) / beta

		for i := 0; i < k; i++ {
			x[i] += mu * y[k-1-i]
		}

		x[k] = mu

		if k == n-1 {
			break
		}

		dot = 0
		for i := 1; i <= k; i++ {
			dot += rn[i] * y[k-i]
		}

		alpha = -(rn[k+1] + dot) / beta

		for i, j := 0, k-1; i < j; i, j = i+1, j-1 {
			y[i], y[j] = y[i]+alpha*y[j], y[j]+alpha*y[i]
		}

		if k%2 == 1 {
			mid := (k - 1) / 2
			y[mid] += alpha * y[mid]
		}

		y[k] = alpha
	}

	return x, nil
}
