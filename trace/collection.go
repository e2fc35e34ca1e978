package trace

import (
	"sort"
	"time"
)

// Collection is an ordered sequence of traces.
type Collection []*Trace

// Filter applies spec to every trace. The first error aborts the pass.
func (c Collection) Filter(spec FilterSpec) error {
	for _, tr := range c {
		if err := tr.Filter(spec); err != nil {
			return err
		}
	}

	return nil
}

// Decimate reduces every trace whose rate exceeds targetRate by the
// integer factor floor(rate/targetRate). Traces at or below the target
// are left untouched; the collection is never upsampled.
func (c Collection) Decimate(targetRate float64) error {
	if targetRate <= 0 {
		return ErrInvalidFactor
	}

	for _, tr := range c {
		if tr.Stats.SamplingRate <= targetRate {
			continue
		}

		factor := int(tr.Stats.SamplingRate / targetRate)
		if err := tr.Decimate(factor); err != nil {
			return err
		}
	}

	return nil
}

// SortForGrouping orders the collection by (identity, onset, channel) so
// that component sets of the same event/station pair become adjacent
// runs, as the consecutive-run grouper requires.
func (c Collection) SortForGrouping() {
	key := func(tr *Trace) (string, int64, string) {
		var onset int64
		if t, ok := tr.Stats.Time(Onset); ok {
			onset = t.UnixNano()
		}

		id := tr.Stats.Network + "." + tr.Stats.Station + "." + tr.Stats.Location

		return id, onset, tr.Stats.Channel
	}

	sort.SliceStable(c, func(i, j int) bool {
		idI, onI, chI := key(c[i])
		idJ, onJ, chJ := key(c[j])

		if idI != idJ {
			return idI < idJ
		}

		if onI != onJ {
			return onI < onJ
		}

		return chI < chJ
	})
}

// TrimRelative cuts every trace to [onset+start, onset+end] seconds
// relative to that trace's own onset. Traces without an onset are left
// untouched and reported via the returned count.
func (c Collection) TrimRelative(start, end float64) (skipped int) {
	for _, tr := range c {
		onset, ok := tr.Stats.Time(Onset)
		if !ok {
			skipped++
			continue
		}

		tr.Trim(onset.Add(secondsToDuration(start)), onset.Add(secondsToDuration(end)))
	}

	return skipped
}

// Span returns the earliest start and latest end time over the
// collection, or zero times for an empty collection.
func (c Collection) Span() (start, end time.Time) {
	for i, tr := range c {
		if i == 0 || tr.Stats.StartTime.Before(start) {
			start = tr.Stats.StartTime
		}

		if e := tr.EndTime(); i == 0 || e.After(end) {
			end = e
		}
	}

	return start, end
}
