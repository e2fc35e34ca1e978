package header

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-seis/trace"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTrace() *trace.Trace {
	return trace.New(make([]float64, 100), trace.Stats{
		Network:      "XX",
		Station:      "STA",
		Channel:      "HHZ",
		StartTime:    t0,
		SamplingRate: 100,
	})
}

// fullStats populates every canonical field.
func fullStats(st *trace.Stats) {
	st.Set(trace.StationLatitude, 46.0)
	st.Set(trace.StationLongitude, 8.0)
	st.Set(trace.StationElevation, 540.0)
	st.Set(trace.EventLatitude, -21.5)
	st.Set(trace.EventLongitude, -179.2)
	st.Set(trace.EventDepth, 550.0)
	st.Set(trace.EventMagnitude, 6.1)
	st.Set(trace.EventTime, t0.Add(-11*time.Minute))
	st.Set(trace.Onset, t0.Add(30*time.Second))
	st.Set(trace.Distance, 78.4)
	st.Set(trace.BackAzimuth, 241.3)
	st.Set(trace.Inclination, 21.0)
	st.Set(trace.Slowness, 6.1)
	st.Set(trace.PPLatitude, 45.8)
	st.Set(trace.PPLongitude, 7.7)
	st.Set(trace.PPDepth, 50.0)
}

func requireCanonicalEqual(t *testing.T, got, want *trace.Stats) {
	t.Helper()

	for _, field := range trace.CanonicalFields() {
		wv, ok := want.Get(field)
		if !ok {
			continue
		}

		gv, ok := got.Get(field)
		if !ok {
			t.Fatalf("field %s lost in round trip", field)
		}

		if field.IsTimeField() {
			if !gv.(time.Time).Equal(wv.(time.Time)) {
				t.Fatalf("field %s: got %v, want %v", field, gv, wv)
			}

			continue
		}

		gf, _ := got.Float(field)
		wf, _ := want.Float(field)

		if math.Abs(gf-wf) > 1e-9 {
			t.Fatalf("field %s: got %v, want %v", field, gf, wf)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{SAC, SH, Q} {
		t.Run(f.String(), func(t *testing.T) {
			src := newTestTrace()
			fullStats(&src.Stats)
			want := src.Stats.Copy()

			if err := Encode(src, f); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			// Decode into a fresh trace carrying only the native mapping.
			dst := newTestTrace()
			native, _ := src.Stats.NativeIfPresent(f.Key())
			for k, v := range native {
				dst.Stats.Native(f.Key())[k] = v
			}

			if err := Decode(dst, f); err != nil {
				t.Fatalf("Decode: %v", err)
			}

			requireCanonicalEqual(t, &dst.Stats, &want)
		})
	}
}

func TestSACSentinelSkipped(t *testing.T) {
	tr := newTestTrace()
	native := tr.Stats.Native(SAC.Key())
	native["stla"] = -12345.0
	native["stlo"] = 8.0

	if err := Decode(tr, SAC); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if tr.Stats.Has(trace.StationLatitude) {
		t.Fatalf("unset sentinel populated station_latitude")
	}

	if v, _ := tr.Stats.Float(trace.StationLongitude); v != 8.0 {
		t.Fatalf("station_longitude = %v, want 8", v)
	}
}

func TestSACTimeConversion(t *testing.T) {
	ref := t0.Add(-5 * time.Second)

	tr := newTestTrace()
	native := tr.Stats.Native(SAC.Key())
	native["reftime"] = ref
	native["a"] = 42.5

	if err := Decode(tr, SAC); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	onset, ok := tr.Stats.Time(trace.Onset)
	if !ok {
		t.Fatalf("onset missing after decode")
	}

	if want := ref.Add(42*time.Second + 500*time.Millisecond); !onset.Equal(want) {
		t.Fatalf("onset = %v, want %v", onset, want)
	}

	// Encoding writes the offset back relative to the same reference.
	if err := Encode(tr, SAC); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if got := native["a"].(float64); math.Abs(got-42.5) > 1e-9 {
		t.Fatalf("encoded onset = %v, want 42.5", got)
	}
}

func TestSACTimeFallsBackToStartTime(t *testing.T) {
	tr := newTestTrace()
	tr.Stats.Native(SAC.Key())["o"] = -660.0

	if err := Decode(tr, SAC); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	evt, ok := tr.Stats.Time(trace.EventTime)
	if !ok {
		t.Fatalf("event_time missing after decode")
	}

	if want := t0.Add(-11 * time.Minute); !evt.Equal(want) {
		t.Fatalf("event_time = %v, want %v", evt, want)
	}
}

func TestQAliasesSH(t *testing.T) {
	tr := newTestTrace()
	tr.Stats.Set(trace.Slowness, 6.4)

	if err := Encode(tr, Q); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	native, ok := tr.Stats.NativeIfPresent(SH.Key())
	if !ok {
		t.Fatalf("Q encode did not write to the SH mapping")
	}

	if native["SLOWNESS"] != 6.4 {
		t.Fatalf("SLOWNESS = %v, want 6.4", native["SLOWNESS"])
	}
}

func TestH5IsSilentNoOp(t *testing.T) {
	tr := newTestTrace()
	tr.Stats.Set(trace.Slowness, 6.4)

	if err := Encode(tr, H5); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if err := Decode(tr, H5); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if _, ok := tr.Stats.NativeIfPresent(H5.Key()); ok {
		t.Fatalf("H5 codec created a native mapping")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	tr := newTestTrace()

	if err := Decode(tr, Unknown); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decode = %v, want ErrUnsupportedFormat", err)
	}

	if err := Encode(tr, Unknown); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Encode = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeWithoutNativeMapping(t *testing.T) {
	tr := newTestTrace()

	if err := Decode(tr, SAC); err != nil {
		t.Fatalf("Decode on bare trace: %v", err)
	}

	if tr.Stats.Has(trace.Slowness) {
		t.Fatalf("decode invented fields")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"SAC", SAC},
		{"sac", SAC},
		{"Sh", SH},
		{"q", Q},
		{"hdf5", H5},
		{"h5", H5},
		{"miniseed", Unknown},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
