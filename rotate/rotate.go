// Package rotate turns component groups into ray-oriented coordinate
// systems.
//
// ZNE->LQT rotates a vertical/north/east triple into the ray frame
// spanned by the back azimuth and the incidence inclination stored in
// the traces' stats. NE->RT rotates the horizontal pair by the back
// azimuth alone. Both operate in place on a component group produced by
// the group package and rename the channel codes of the rotated traces.
package rotate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-seis/trace"
)

// Rotation errors.
var (
	// ErrUnknownSpec indicates an unsupported rotation spec string.
	ErrUnknownSpec = errors.New("rotate: unknown rotation spec")
	// ErrMissingComponent indicates a group lacking a required channel.
	ErrMissingComponent = errors.New("rotate: component missing from group")
	// ErrMissingGeometry indicates missing back_azimuth or inclination.
	ErrMissingGeometry = errors.New("rotate: geometry stats field missing")
	// ErrLengthMismatch indicates components of unequal sample count.
	ErrLengthMismatch = errors.New("rotate: components differ in length")
)

// Spec strings accepted by [Rotate].
const (
	SpecZNELQT = "ZNE->LQT"
	SpecNERT   = "NE->RT"
)

// Rotate applies the named rotation to one component group.
func Rotate(c trace.Collection, spec string) error {
	switch spec {
	case SpecZNELQT:
		return ZNEToLQT(c)
	case SpecNERT:
		return NEToRT(c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSpec, spec)
	}
}

// ZNEToLQT rotates a Z/N/E group into the L/Q/T ray frame using the
// back azimuth and inclination from the group's stats.
func ZNEToLQT(c trace.Collection) error {
	z, err := component(c, 'Z')
	if err != nil {
		return err
	}

	n, err := component(c, 'N')
	if err != nil {
		return err
	}

	e, err := component(c, 'E')
	if err != nil {
		return err
	}

	if len(z.Data) != len(n.Data) || len(z.Data) != len(e.Data) {
		return ErrLengthMismatch
	}

	baz, ok := z.Stats.Float(trace.BackAzimuth)
	if !ok {
		return fmt.Errorf("%w: back_azimuth", ErrMissingGeometry)
	}

	inc, ok := z.Stats.Float(trace.Inclination)
	if !ok {
		return fmt.Errorf("%w: inclination", ErrMissingGeometry)
	}

	ba := baz * math.Pi / 180
	in := inc * math.Pi / 180

	sinBA, cosBA := math.Sincos(ba)
	sinIn, cosIn := math.Sincos(in)

	// Rows map (Z, N, E) to (L, Q, T).
	rot := mat.NewDense(3, 3, []float64{
		cosIn, -sinIn * cosBA, -sinIn * sinBA,
		sinIn, cosIn * cosBA, cosIn * sinBA,
		0, sinBA, -cosBA,
	})

	ns := len(z.Data)
	in3 := mat.NewDense(3, ns, nil)
	in3.SetRow(0, z.Data)
	in3.SetRow(1, n.Data)
	in3.SetRow(2, e.Data)

	var out mat.Dense
	out.Mul(rot, in3)

	copy(z.Data, out.RawRowView(0))
	copy(n.Data, out.RawRowView(1))
	copy(e.Data, out.RawRowView(2))

	renameComponent(z, 'L')
	renameComponent(n, 'Q')
	renameComponent(e, 'T')

	return nil
}

// NEToRT rotates an N/E pair into the R/T frame by the back azimuth.
func NEToRT(c trace.Collection) error {
	n, err := component(c, 'N')
	if err != nil {
		return err
	}

	e, err := component(c, 'E')
	if err != nil {
		return err
	}

	if len(n.Data) != len(e.Data) {
		return ErrLengthMismatch
	}

	baz, ok := n.Stats.Float(trace.BackAzimuth)
	if !ok {
		return fmt.Errorf("%w: back_azimuth", ErrMissingGeometry)
	}

	ba := baz * math.Pi / 180
	sinBA, cosBA := math.Sincos(ba)

	rot := mat.NewDense(2, 2, []float64{
		-cosBA, -sinBA,
		sinBA, -cosBA,
	})

	ns := len(n.Data)
	in2 := mat.NewDense(2, ns, nil)
	in2.SetRow(0, n.Data)
	in2.SetRow(1, e.Data)

	var out mat.Dense
	out.Mul(rot, in2)

	copy(n.Data, out.RawRowView(0))
	copy(e.Data, out.RawRowView(1))

	renameComponent(n, 'R')
	renameComponent(e, 'T')

	return nil
}

func component(c trace.Collection, comp byte) (*trace.Trace, error) {
	for _, tr := range c {
		if tr.Component() == comp {
			return tr, nil
		}
	}

	return nil, fmt.Errorf("%w: %c", ErrMissingComponent, comp)
}

func renameComponent(tr *trace.Trace, comp byte) {
	ch := tr.Stats.Channel
	if ch == "" {
		tr.Stats.Channel = string(comp)
		return
	}

	tr.Stats.Channel = ch[:len(ch)-1] + string(comp)
}
