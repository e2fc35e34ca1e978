package rf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-seis/trace"
)

// ErrStackLength indicates traces of unequal sample count within one
// channel identity.
var ErrStackLength = errors.New("rf: stacked traces differ in length")

// Stack averages the collection sample-wise per channel identity
// (network.station.location.channel) and returns one trace per
// identity, in first-seen order. All members of an identity must have
// the same sample count. The onset is re-attached as the first member's
// offset from its start time.
func Stack(c trace.Collection) (trace.Collection, error) {
	var ids []string

	members := make(map[string]trace.Collection)

	for _, tr := range c {
		id := tr.ID()
		if _, ok := members[id]; !ok {
			ids = append(ids, id)
		}

		members[id] = append(members[id], tr)
	}

	var out trace.Collection

	for _, id := range ids {
		tr, err := stackOne(members[id])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}

		out = append(out, tr)
	}

	return out, nil
}

func stackOne(members trace.Collection) (*trace.Trace, error) {
	first := members[0]

	for _, tr := range members[1:] {
		if len(tr.Data) != len(first.Data) {
			return nil, ErrStackLength
		}
	}

	sum := make([]float64, len(first.Data))
	for _, tr := range members {
		floats.Add(sum, tr.Data)
	}

	floats.Scale(1/float64(len(members)), sum)

	st := first.Stats.Copy()

	if onset, ok := first.Stats.Time(trace.Onset); ok {
		offset := onset.Sub(first.Stats.StartTime)
		st.Set(trace.Onset, st.StartTime.Add(offset))
	}

	return trace.New(sum, st), nil
}

// Moveout corrects every trace's delay axis to the reference slowness
// refSlowness (s/deg) for the converted phase (default "Ps"; zero ref
// selects 6.4 s/deg). The applied correction is recorded in each
// trace's stats and the slowness field is rewritten to the reference.
func Moveout(c trace.Collection, phase string, refSlowness float64, opts ...Option) error {
	if phase == "" {
		phase = "Ps"
	}

	if refSlowness <= 0 {
		refSlowness = 6.4
	}

	cfg := newConfig(opts)

	if err := cfg.earth.Moveout(c, phase, refSlowness); err != nil {
		return err
	}

	for _, tr := range c {
		before, _ := tr.Stats.Float(trace.Slowness)

		tr.Stats.Moveout = &trace.MoveoutInfo{
			Phase:                 phase,
			Model:                 cfg.earth.Name,
			SlownessBeforeMoveout: before,
		}

		tr.Stats.Set(trace.Slowness, refSlowness)
	}

	return nil
}

// Ppoint computes the piercing point of every trace at the given
// interface depth for the converted leg (default "S") and stores the
// coordinates in the stats.
func Ppoint(c trace.Collection, depthKm float64, phase string, opts ...Option) error {
	if phase == "" {
		phase = "S"
	}

	cfg := newConfig(opts)

	for _, tr := range c {
		if err := cfg.earth.Ppoint(&tr.Stats, depthKm, phase); err != nil {
			return fmt.Errorf("%s: %w", tr.ID(), err)
		}
	}

	return nil
}
