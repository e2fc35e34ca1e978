package rf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedMethod indicates a receiver-function method other than
// P or S.
var ErrUnsupportedMethod = errors.New("rf: unsupported method")

// Method selects the receiver-function type.
type Method int

const (
	// P computes P receiver functions from teleseismic P arrivals.
	P Method = iota
	// S computes S receiver functions from teleseismic S arrivals.
	S
)

// ParseMethod maps "P" or "S" (case-insensitive) to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(s) {
	case "P":
		return P, nil
	case "S":
		return S, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

func (m Method) valid() bool {
	return m == P || m == S
}

// String returns the phase letter of the method.
func (m Method) String() string {
	switch m {
	case P:
		return "P"
	case S:
		return "S"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// defaultRange returns the method's default epicentral distance window
// in degrees.
func (m Method) defaultRange() (min, max float64) {
	if m == S {
		return 50, 85
	}

	return 30, 90
}

// defaultPiercingPhase returns the converted leg used for piercing
// points: the S leg for P receiver functions and vice versa.
func (m Method) defaultPiercingPhase() string {
	if m == S {
		return "P"
	}

	return "S"
}

// defaultDeconvWindow returns the method's default source window in
// seconds relative to the onset.
func (m Method) defaultDeconvWindow() (start, end float64) {
	if m == S {
		return -20, 20
	}

	return -10, 30
}
