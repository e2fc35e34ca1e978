package trace

import (
	"testing"
	"time"
)

func onsetTrace(station, channel string, onsetSec float64) *Trace {
	tr := newTestTrace(101, 10)
	tr.Stats.Station = station
	tr.Stats.Channel = channel
	tr.Stats.Set(Onset, t0.Add(time.Duration(onsetSec*float64(time.Second))))

	return tr
}

func TestCollectionDecimateNeverUpsamples(t *testing.T) {
	low := newTestTrace(100, 10)
	high := newTestTrace(100, 50)

	c := Collection{low, high}

	if err := c.Decimate(20); err != nil {
		t.Fatalf("Decimate: %v", err)
	}

	if low.Stats.SamplingRate != 10 || len(low.Data) != 100 {
		t.Fatalf("trace below target changed: rate %v, n %d",
			low.Stats.SamplingRate, len(low.Data))
	}

	if high.Stats.SamplingRate != 25 {
		t.Fatalf("rate = %v, want 25 (factor floor(50/20) = 2)", high.Stats.SamplingRate)
	}
}

func TestCollectionTrimRelative(t *testing.T) {
	withOnset := onsetTrace("STA", "HHZ", 5)
	withoutOnset := newTestTrace(101, 10)

	c := Collection{withOnset, withoutOnset}

	skipped := c.TrimRelative(-1, 2)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}

	if len(withOnset.Data) != 31 {
		t.Fatalf("trimmed len = %d, want 31", len(withOnset.Data))
	}

	if len(withoutOnset.Data) != 101 {
		t.Fatalf("onset-less trace was trimmed to %d samples", len(withoutOnset.Data))
	}
}

func TestSortForGrouping(t *testing.T) {
	c := Collection{
		onsetTrace("BBB", "HHZ", 10),
		onsetTrace("AAA", "HHN", 10),
		onsetTrace("AAA", "HHZ", 5),
		onsetTrace("AAA", "HHE", 10),
		onsetTrace("AAA", "HHZ", 10),
	}

	c.SortForGrouping()

	got := make([]string, len(c))
	for i, tr := range c {
		onset, _ := tr.Stats.Time(Onset)
		got[i] = tr.Stats.Station + tr.Stats.Channel + onset.Format("05")
	}

	want := []string{"AAAHHZ05", "AAAHHE10", "AAAHHN10", "AAAHHZ10", "BBBHHZ10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestSpan(t *testing.T) {
	a := newTestTrace(101, 10) // ends t0+10s
	b := newTestTrace(11, 10)
	b.Stats.StartTime = t0.Add(-2 * time.Second)

	start, end := Collection{a, b}.Span()

	if !start.Equal(t0.Add(-2 * time.Second)) {
		t.Fatalf("start = %v", start)
	}

	if !end.Equal(t0.Add(10 * time.Second)) {
		t.Fatalf("end = %v", end)
	}
}
