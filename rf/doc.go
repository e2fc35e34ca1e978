// Package rf computes receiver functions from three-component
// seismograms.
//
// The entry points mirror the processing workflow: [Stats] attaches ray
// geometry (distance, back azimuth, onset, inclination, slowness) to a
// trace from event and station records and a travel-time model;
// [Process] runs the pipeline of filtering, windowing, resampling,
// rotation, deconvolution and the method-specific polarity and
// mirroring corrections; [Stack], [Moveout] and [Ppoint] post-process
// the resulting receiver functions.
//
// Failures split into four classes. Configuration errors (an
// unsupported method) abort immediately. Geometric exclusions
// ([ErrDistanceOutOfRange]) are deliberate filter outcomes, not
// failures. Physical impossibilities ([ErrNoArrivals]) are fatal for
// the affected computation. Everything else is a warning delivered to
// the handler installed with [WithWarningHandler]; warnings wrap
// category sentinels ([ErrAmbiguousArrival], group.ErrIncompleteGroup)
// so strict callers can escalate selected categories with errors.Is.
package rf
