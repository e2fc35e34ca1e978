package group

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-seis/internal/testutil"
	"github.com/cwbudde/algo-seis/trace"
)

// runs builds a collection of consecutive runs with the given sizes,
// each run sharing one onset.
func runs(sizes ...int) trace.Collection {
	var c trace.Collection

	channels := []string{"HHZ", "HHN", "HHE", "HH1", "HH2"}

	for run, size := range sizes {
		for i := 0; i < size; i++ {
			tr := testutil.NewOnsetTrace(channels[i], testutil.Constant(1, 10), 100, float64(run*100))
			c = append(c, tr)
		}
	}

	return c
}

func collect(g *Grouper, c trace.Collection) []trace.Collection {
	var out []trace.Collection
	for grp := range g.Groups(c) {
		out = append(out, grp)
	}

	return out
}

func TestGroupsYieldsAllowedRuns(t *testing.T) {
	g := New()
	groups := collect(g, runs(3, 3, 1, 2, 3))

	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}

	wantSizes := []int{3, 3, 2, 3}
	for i, grp := range groups {
		if len(grp) != wantSizes[i] {
			t.Fatalf("group %d has %d traces, want %d", i, len(grp), wantSizes[i])
		}
	}

	warnings := g.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}

	if !errors.Is(warnings[0], ErrIncompleteGroup) {
		t.Fatalf("warning = %v, want ErrIncompleteGroup", warnings[0])
	}
}

func TestGroupsHandlerReceivesReports(t *testing.T) {
	var reported []error

	g := New(WithWarningHandler(func(err error) {
		reported = append(reported, err)
	}))

	collect(g, runs(1, 3, 4))

	if len(reported) != 2 {
		t.Fatalf("handler got %d reports, want 2 (runs of 1 and 4)", len(reported))
	}
}

func TestGroupsIsRestartable(t *testing.T) {
	g := New()
	c := runs(3, 2)

	seq := g.Groups(c)

	first := 0
	for range seq {
		first++
	}

	second := 0
	for range seq {
		second++
	}

	if first != 2 || second != 2 {
		t.Fatalf("passes yielded %d and %d groups, want 2 and 2", first, second)
	}

	if len(g.Warnings()) != 0 {
		t.Fatalf("warnings did not reset: %v", g.Warnings())
	}
}

func TestGroupsIsLazy(t *testing.T) {
	g := New()

	count := 0
	for range g.Groups(runs(2, 2, 2)) {
		count++
		break
	}

	if count != 1 {
		t.Fatalf("early break yielded %d groups", count)
	}
}

func TestGroupsSharesTracePointers(t *testing.T) {
	g := New()
	c := runs(2)

	for grp := range g.Groups(c) {
		grp[0].Data[0] = 99
	}

	if c[0].Data[0] != 99 {
		t.Fatalf("group mutation did not reach the source collection")
	}
}

func TestGroupsKeylessTracesAreReported(t *testing.T) {
	c := runs(3)
	bare := testutil.NewTrace("HHZ", testutil.Constant(1, 10), 100)
	c = append(c, bare)

	g := New()
	groups := collect(g, c)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}

	if len(g.Warnings()) != 1 {
		t.Fatalf("keyless trace not reported: %v", g.Warnings())
	}
}

func TestGroupsCustomSizes(t *testing.T) {
	g := New(WithSizes(1))
	groups := collect(g, runs(1, 2))

	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("WithSizes(1): got %v", groups)
	}
}
