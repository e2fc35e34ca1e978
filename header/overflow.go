package header

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cwbudde/algo-seis/trace"
)

// The overflow sub-codec packs canonical fields that share one native
// free-text slot into a single JSON object. Timestamps are carried as
// RFC 3339 strings with nanosecond precision so the payload round-trips
// exactly; everything else is a JSON number.

func encodeOverflow(fields map[trace.Field]any) (string, error) {
	obj := make(map[string]any, len(fields))

	for field, v := range fields {
		if t, ok := v.(time.Time); ok {
			obj[string(field)] = t.UTC().Format(time.RFC3339Nano)
			continue
		}

		obj[string(field)] = v
	}

	// encoding/json emits no extraneous whitespace, matching the
	// compact payload the format expects.
	b, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("header: encoding overflow payload: %w", err)
	}

	return string(b), nil
}

// decodeOverflow merges a JSON overflow payload into canonical stats.
// A malformed payload is skipped; per-field decoding failures skip only
// that field.
func decodeOverflow(st *trace.Stats, raw any) {
	s, ok := raw.(string)
	if !ok {
		return
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return
	}

	for name, v := range obj {
		field := trace.Field(name)

		if field.IsTimeField() {
			str, ok := v.(string)
			if !ok {
				continue
			}

			t, err := time.Parse(time.RFC3339Nano, str)
			if err != nil {
				continue
			}

			st.Set(field, t)

			continue
		}

		st.Set(field, v)
	}
}
