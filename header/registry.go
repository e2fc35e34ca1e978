package header

import (
	"time"

	"github.com/cwbudde/algo-seis/trace"
)

// sacUnset is the SAC "value not set" sentinel. Any native value whose
// string form contains it is skipped on decode.
const sacUnset = "-12345"

// overflowField is the SH free-text slot shared by every canonical field
// the SH header cannot store natively.
const overflowField = "COMMENT"

// sacRefTimeKey is the native sub-mapping entry carrying the SAC
// reference time (derived from the nz* fields by the reader). When
// absent, the trace start time serves as reference.
const sacRefTimeKey = "reftime"

// formatTables aligns native field names positionally with
// trace.CanonicalFields.
var formatTables = map[Format][]string{
	SAC: {
		"stla", "stlo", "stel",
		"evla", "evlo", "evdp", "mag", "o",
		"a", "gcarc", "baz", "user0", "user1",
		"user2", "user3", "user4",
	},
	SH: {
		overflowField, overflowField, overflowField,
		"LAT", "LON", "DEPTH", "MAGNITUDE", "ORIGIN",
		"P-ONSET", "DISTANCE", "AZIMUTH", "INCI", "SLOWNESS",
		overflowField, overflowField, overflowField,
	},
}

// Table returns the native field names of a format, positionally
// aligned with trace.CanonicalFields. The second return value is false
// for formats without a header table.
func Table(f Format) ([]string, bool) {
	t, ok := formatTables[f.normalize()]
	if !ok {
		return nil, false
	}

	out := make([]string, len(t))
	copy(out, t)

	return out, true
}

// conversion is a pair of inverse translations between the canonical
// value domain and a format's native value domain.
type conversion struct {
	decode func(st *trace.Stats, native map[string]any, v any) (any, bool)
	encode func(st *trace.Stats, native map[string]any, v any) (any, bool)
}

// conversions registers value-domain translations per (format, field).
// Fields absent here pass through unconverted.
var conversions = map[Format]map[trace.Field]conversion{
	SAC: {
		trace.Onset:     {decode: sacToTime, encode: timeToSAC},
		trace.EventTime: {decode: sacToTime, encode: timeToSAC},
	},
}

// sacRefTime returns the SAC reference time for a trace.
func sacRefTime(st *trace.Stats, native map[string]any) time.Time {
	if v, ok := native[sacRefTimeKey]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}

	return st.StartTime
}

func sacToTime(st *trace.Stats, native map[string]any, v any) (any, bool) {
	sec, ok := asFloat(v)
	if !ok {
		return nil, false
	}

	return sacRefTime(st, native).Add(time.Duration(sec * float64(time.Second))), true
}

func timeToSAC(st *trace.Stats, native map[string]any, v any) (any, bool) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, false
	}

	return t.Sub(sacRefTime(st, native)).Seconds(), true
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
