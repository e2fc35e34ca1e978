package header

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-seis/trace"
)

// ErrUnsupportedFormat is returned when a format has no header table.
// It is advisory: the trace is left unchanged and callers are free to
// continue with the remaining traces.
var ErrUnsupportedFormat = errors.New("header: unsupported format")

// Decode copies native header values from the trace's format sub-mapping
// into canonical stats fields.
//
// Missing native fields are skipped, as are SAC unset sentinels. The SH
// overflow payload is parsed once and merged. H5 stores canonical fields
// natively and is a silent no-op, as is a trace that carries no native
// sub-mapping for the format. An unsupported format yields
// [ErrUnsupportedFormat] and no change.
func Decode(tr *trace.Trace, f Format) error {
	f = f.normalize()
	if f == H5 {
		return nil
	}

	table, ok := formatTables[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	native, ok := tr.Stats.NativeIfPresent(f.Key())
	if !ok {
		return nil
	}

	st := &tr.Stats
	overflowDone := false

	for i, field := range trace.CanonicalFields() {
		name := table[i]

		if f == SH && name == overflowField {
			if overflowDone {
				continue
			}

			overflowDone = true

			if raw, ok := native[overflowField]; ok {
				decodeOverflow(st, raw)
			}

			continue
		}

		raw, ok := native[name]
		if !ok {
			continue
		}

		if f == SAC && strings.Contains(fmt.Sprint(raw), sacUnset) {
			continue
		}

		v := raw
		if conv, ok := conversions[f][field]; ok {
			v, ok = conv.decode(st, native, raw)
			if !ok {
				continue
			}
		}

		st.Set(field, v)
	}

	return nil
}

// Encode serializes canonical stats fields into the trace's native
// sub-mapping for the given format.
//
// Fields mapped to the SH overflow slot are accumulated and written as
// one compact JSON payload after the per-field loop. H5 is silently
// skipped (it stores canonical fields itself); other formats without a
// header table yield [ErrUnsupportedFormat].
func Encode(tr *trace.Trace, f Format) error {
	f = f.normalize()
	if f == H5 {
		return nil
	}

	table, ok := formatTables[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	st := &tr.Stats
	native := st.Native(f.Key())
	overflow := make(map[trace.Field]any)

	for i, field := range trace.CanonicalFields() {
		name := table[i]

		v, ok := st.Get(field)
		if !ok {
			continue
		}

		if f == SH && name == overflowField {
			overflow[field] = v
			continue
		}

		if conv, ok := conversions[f][field]; ok {
			v, ok = conv.encode(st, native, v)
			if !ok {
				continue
			}
		}

		native[name] = v
	}

	if len(overflow) > 0 {
		payload, err := encodeOverflow(overflow)
		if err != nil {
			return err
		}

		native[overflowField] = payload
	}

	return nil
}
