// Package header translates between the canonical receiver-function
// metadata model and format-specific header representations.
//
// The canonical field set (trace.CanonicalFields) is positionally aligned
// with one native field-name table per supported format. [Decode] copies
// native values into canonical stats after a file has been read; [Encode]
// serializes canonical stats back into the native sub-mapping right
// before a file is written. Actual file I/O stays outside this package:
// the codec only ever touches the native sub-mapping attached to a
// trace's stats.
//
// Two format peculiarities are handled here. SAC marks absent header
// slots with the sentinel value -12345, which must never leak into
// canonical fields, and stores times relative to its reference time, so
// onset and event time pass through a registered conversion pair. Seismic
// Handler (SH/Q) has no native slots for several canonical fields and
// packs them as one compact JSON payload into its free-text COMMENT
// field; that payload round-trips exactly.
//
// The registry tables are immutable and initialized at package load.
package header
