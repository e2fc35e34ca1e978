package rf

import (
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/algo-seis/earthmodel"
	"github.com/cwbudde/algo-seis/internal/testutil"
	"github.com/cwbudde/algo-seis/trace"
)

func TestStackAverages(t *testing.T) {
	c := trace.Collection{
		testutil.NewOnsetTrace("HHQ", testutil.Constant(1, 100), 10, 2),
		testutil.NewOnsetTrace("HHQ", testutil.Constant(2, 100), 10, 2),
		testutil.NewOnsetTrace("HHQ", testutil.Constant(3, 100), 10, 2),
	}

	out, err := Stack(c)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("got %d traces, want 1", len(out))
	}

	testutil.RequireSliceNearlyEqual(t, out[0].Data, testutil.Constant(2, 100), 1e-12)

	onset, ok := out[0].Stats.Time(trace.Onset)
	if !ok {
		t.Fatalf("onset lost")
	}

	if got := onset.Sub(out[0].Stats.StartTime); got != 2*time.Second {
		t.Fatalf("onset offset = %v, want 2s", got)
	}
}

func TestStackPartitionsByIdentity(t *testing.T) {
	c := trace.Collection{
		testutil.NewTrace("HHQ", testutil.Constant(1, 10), 10),
		testutil.NewTrace("HHT", testutil.Constant(4, 10), 10),
		testutil.NewTrace("HHQ", testutil.Constant(3, 10), 10),
	}

	out, err := Stack(c)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("got %d traces, want 2", len(out))
	}

	// First-seen order, not sorted.
	if out[0].Stats.Channel != "HHQ" || out[1].Stats.Channel != "HHT" {
		t.Fatalf("channels = %q, %q", out[0].Stats.Channel, out[1].Stats.Channel)
	}

	testutil.RequireSliceNearlyEqual(t, out[0].Data, testutil.Constant(2, 10), 1e-12)
	testutil.RequireSliceNearlyEqual(t, out[1].Data, testutil.Constant(4, 10), 1e-12)
}

func TestStackLengthMismatch(t *testing.T) {
	c := trace.Collection{
		testutil.NewTrace("HHQ", testutil.Constant(1, 100), 10),
		testutil.NewTrace("HHQ", testutil.Constant(2, 90), 10),
	}

	if _, err := Stack(c); !errors.Is(err, ErrStackLength) {
		t.Fatalf("Stack = %v, want ErrStackLength", err)
	}
}

const stackTestModel = `
model: one-layer
layers:
  - {thickness_km: 100, vp: 6.0, vs: 3.5}
`

func TestMoveoutRecordsCorrection(t *testing.T) {
	m, err := earthmodel.Parse([]byte(stackTestModel))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tr := testutil.NewOnsetTrace("HHQ", make([]float64, 300), 10, 10)
	tr.Stats.Set(trace.Slowness, 0.0)

	if err := Moveout(trace.Collection{tr}, "", 0, WithEarthModel(m)); err != nil {
		t.Fatalf("Moveout: %v", err)
	}

	rec := tr.Stats.Moveout
	if rec == nil {
		t.Fatalf("no moveout record")
	}

	if rec.Phase != "Ps" || rec.Model != "one-layer" || rec.SlownessBeforeMoveout != 0 {
		t.Fatalf("record = %+v", rec)
	}

	// The slowness field now carries the default reference 6.4 s/deg.
	if v, _ := tr.Stats.Float(trace.Slowness); v != 6.4 {
		t.Fatalf("slowness = %v, want 6.4", v)
	}
}

func TestPpointCollection(t *testing.T) {
	tr := testutil.NewTrace("HHQ", make([]float64, 10), 10)
	tr.Stats.Set(trace.Slowness, 6.4)
	tr.Stats.Set(trace.BackAzimuth, 90.0)
	tr.Stats.Set(trace.StationLatitude, 0.0)
	tr.Stats.Set(trace.StationLongitude, 8.0)

	if err := Ppoint(trace.Collection{tr}, 50, ""); err != nil {
		t.Fatalf("Ppoint: %v", err)
	}

	if !tr.Stats.Has(trace.PPLatitude) || !tr.Stats.Has(trace.PPLongitude) {
		t.Fatalf("piercing point not stored")
	}

	if v, _ := tr.Stats.Float(trace.PPDepth); v != 50 {
		t.Fatalf("pp_depth = %v, want 50", v)
	}

	lon, _ := tr.Stats.Float(trace.PPLongitude)
	if lon <= 8 {
		t.Fatalf("pp_longitude = %v, want east of the station", lon)
	}
}

func TestPpointMissingGeometry(t *testing.T) {
	tr := testutil.NewTrace("HHQ", make([]float64, 10), 10)

	if err := Ppoint(trace.Collection{tr}, 50, ""); err == nil {
		t.Fatalf("Ppoint accepted a trace without geometry")
	}
}
