// Package trace defines the waveform data model used throughout algo-seis.
//
// A [Trace] is one continuous recording: a sample slice at a fixed sampling
// rate plus a [Stats] metadata record. Stats carries the trace identity
// (network, station, location, channel), the start time and sampling rate,
// an open set of canonical receiver-function fields keyed by [Field], and
// per-format native header sub-mappings managed by the header package.
//
// A [Collection] is an ordered sequence of traces. Collections make no
// homogeneity guarantees; grouping and stacking operate on subsets sharing
// an identity key.
//
// In-place primitives (trim, decimate, filter, taper, reverse, negate) live
// on Trace and are mapped across collections where that is useful. They are
// the building blocks the rf pipeline orchestrates.
package trace
