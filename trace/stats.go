package trace

import (
	"time"
)

// Field names a canonical metadata entry in a Stats record.
//
// The canonical set below is ordered; the header package relies on this
// order for the positional correspondence with per-format field tables.
// Packages may define additional Field keys for their own metadata (the
// profile package does), such keys simply never take part in header
// translation.
type Field string

// Canonical receiver-function fields.
const (
	StationLatitude  Field = "station_latitude"
	StationLongitude Field = "station_longitude"
	StationElevation Field = "station_elevation"
	EventLatitude    Field = "event_latitude"
	EventLongitude   Field = "event_longitude"
	EventDepth       Field = "event_depth"
	EventMagnitude   Field = "event_magnitude"
	EventTime        Field = "event_time"
	Onset            Field = "onset"
	Distance         Field = "distance"
	BackAzimuth      Field = "back_azimuth"
	Inclination      Field = "inclination"
	Slowness         Field = "slowness"
	PPLatitude       Field = "pp_latitude"
	PPLongitude      Field = "pp_longitude"
	PPDepth          Field = "pp_depth"
)

var canonicalFields = []Field{
	StationLatitude, StationLongitude, StationElevation,
	EventLatitude, EventLongitude, EventDepth, EventMagnitude, EventTime,
	Onset, Distance, BackAzimuth, Inclination, Slowness,
	PPLatitude, PPLongitude, PPDepth,
}

// CanonicalFields returns the canonical field set in its defining order.
func CanonicalFields() []Field {
	out := make([]Field, len(canonicalFields))
	copy(out, canonicalFields)

	return out
}

// IsTimeField reports whether the canonical value domain of f is an
// absolute timestamp rather than a number.
func (f Field) IsTimeField() bool {
	return f == EventTime || f == Onset
}

// MoveoutInfo records the moveout correction applied to a trace.
type MoveoutInfo struct {
	Phase                 string
	Model                 string
	SlownessBeforeMoveout float64
}

// Stats is the mutable per-trace metadata record.
//
// Identity, start time and sampling rate are always present. Canonical
// fields and native format sub-mappings are optional and may disagree
// until a header codec pass reconciles them.
type Stats struct {
	Network  string
	Station  string
	Location string
	Channel  string

	StartTime    time.Time
	SamplingRate float64

	// Moveout is set by the moveout adapter after a correction pass.
	Moveout *MoveoutInfo

	fields map[Field]any
	native map[string]map[string]any
}

// Set stores a canonical field value.
func (s *Stats) Set(f Field, v any) {
	if s.fields == nil {
		s.fields = make(map[Field]any)
	}

	s.fields[f] = v
}

// Get returns a canonical field value and whether it is present.
func (s *Stats) Get(f Field) (any, bool) {
	v, ok := s.fields[f]
	return v, ok
}

// Has reports whether a canonical field is present.
func (s *Stats) Has(f Field) bool {
	_, ok := s.fields[f]
	return ok
}

// Delete removes a canonical field.
func (s *Stats) Delete(f Field) {
	delete(s.fields, f)
}

// Float returns a canonical field as float64. Integer values are widened.
func (s *Stats) Float(f Field) (float64, bool) {
	v, ok := s.fields[f]
	if !ok {
		return 0, false
	}

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

// Time returns a canonical field as an absolute timestamp.
func (s *Stats) Time(f Field) (time.Time, bool) {
	v, ok := s.fields[f]
	if !ok {
		return time.Time{}, false
	}

	t, ok := v.(time.Time)

	return t, ok
}

// Native returns the native header sub-mapping for a format key,
// creating it when absent. Format keys are lowercase normalized names
// ("sac", "sh", "h5") as produced by the header package.
func (s *Stats) Native(format string) map[string]any {
	if s.native == nil {
		s.native = make(map[string]map[string]any)
	}

	m, ok := s.native[format]
	if !ok {
		m = make(map[string]any)
		s.native[format] = m
	}

	return m
}

// NativeIfPresent returns the native sub-mapping for a format key
// without creating it.
func (s *Stats) NativeIfPresent(format string) (map[string]any, bool) {
	m, ok := s.native[format]
	return m, ok
}

// Delta returns the sampling interval in seconds.
func (s *Stats) Delta() float64 {
	if s.SamplingRate <= 0 {
		return 0
	}

	return 1 / s.SamplingRate
}

// Copy returns a deep copy of the stats record.
func (s *Stats) Copy() Stats {
	out := *s

	if s.Moveout != nil {
		mo := *s.Moveout
		out.Moveout = &mo
	}

	if s.fields != nil {
		out.fields = make(map[Field]any, len(s.fields))
		for k, v := range s.fields {
			out.fields[k] = v
		}
	}

	if s.native != nil {
		out.native = make(map[string]map[string]any, len(s.native))
		for k, m := range s.native {
			mm := make(map[string]any, len(m))
			for kk, vv := range m {
				mm[kk] = vv
			}

			out.native[k] = mm
		}
	}

	return out
}
