package rf

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-seis/geodetics"
	"github.com/cwbudde/algo-seis/trace"
)

// Geometry errors.
var (
	// ErrDistanceOutOfRange marks a station/event pair outside the
	// requested epicentral distance window. It is a filter outcome, not
	// a failure: callers drop the trace and continue.
	ErrDistanceOutOfRange = errors.New("rf: epicentral distance out of range")
	// ErrNoArrivals indicates that the requested phase does not arrive
	// at the computed geometry. Fatal for the affected trace since its
	// onset is undefined.
	ErrNoArrivals = errors.New("rf: no arrivals for phase")
	// ErrAmbiguousArrival tags the warning for a travel-time query
	// returning more than one arrival; the first one is used.
	ErrAmbiguousArrival = errors.New("rf: ambiguous phase arrival")
)

// Stats computes the ray geometry of one station/event pair and stores
// it in st: station and event coordinates, distance, back azimuth,
// onset, inclination and slowness, plus the piercing point when
// requested via [WithPiercing].
//
// A distance outside the method's window (or the one set with
// [WithDistanceRange]) returns [ErrDistanceOutOfRange] and leaves st
// untouched.
func Stats(st *trace.Stats, ev *Event, sta Station, method Method, opts ...Option) error {
	if !method.valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedMethod, method)
	}

	cfg := newConfig(opts)

	return rfstats(st, ev, sta, method, &cfg)
}

func rfstats(st *trace.Stats, ev *Event, sta Station, method Method, cfg *config) error {
	origin, err := ev.Origin()
	if err != nil {
		return err
	}

	distM, azimuth, _, err := geodetics.Inverse(
		sta.Latitude, sta.Longitude, origin.Latitude, origin.Longitude)
	if err != nil {
		return fmt.Errorf("rf: distance computation: %w", err)
	}

	distDeg := geodetics.KilometerToDegree(distM / 1000)

	min, max := method.defaultRange()
	if cfg.distRange != nil {
		min, max = cfg.distRange[0], cfg.distRange[1]
	}

	if distDeg < min || distDeg > max {
		return fmt.Errorf("%w: %.1f not in [%.1f, %.1f]",
			ErrDistanceOutOfRange, distDeg, min, max)
	}

	phase := cfg.phase
	if phase == "" {
		phase = method.String()
	}

	arrivals, err := cfg.model.Arrivals(origin.DepthKm, distDeg, phase)
	if err != nil {
		return fmt.Errorf("rf: travel-time lookup: %w", err)
	}

	if len(arrivals) == 0 {
		return fmt.Errorf("%w: %s at %.1f deg, depth %.1f km",
			ErrNoArrivals, phase, distDeg, origin.DepthKm)
	}

	if len(arrivals) > 1 && cfg.warn != nil {
		cfg.warn(fmt.Errorf("%w: %d arrivals of %s at %.1f deg, using the first",
			ErrAmbiguousArrival, len(arrivals), phase, distDeg))
	}

	first := arrivals[0]

	st.Set(trace.StationLatitude, sta.Latitude)
	st.Set(trace.StationLongitude, sta.Longitude)
	st.Set(trace.StationElevation, sta.Elevation)
	st.Set(trace.EventLatitude, origin.Latitude)
	st.Set(trace.EventLongitude, origin.Longitude)
	st.Set(trace.EventDepth, origin.DepthKm)
	st.Set(trace.EventTime, origin.Time)

	if mag, ok := ev.Magnitude(); ok {
		st.Set(trace.EventMagnitude, mag.Value)
	}

	st.Set(trace.Distance, distDeg)
	st.Set(trace.BackAzimuth, azimuth)
	st.Set(trace.Onset, origin.Time.Add(secondsToDuration(first.Time)))
	st.Set(trace.Inclination, first.IncidenceAngle)
	st.Set(trace.Slowness, first.RayParam)

	if cfg.ppSet {
		ppPhase := cfg.ppPhase
		if ppPhase == "" {
			ppPhase = method.defaultPiercingPhase()
		}

		if err := cfg.earth.Ppoint(st, cfg.ppDepth, ppPhase); err != nil {
			return fmt.Errorf("rf: piercing point: %w", err)
		}
	}

	return nil
}

// StatsCollection computes the ray geometry for every trace of c and
// returns the traces that passed the distance filter. Excluded traces
// are dropped, not an error; every other failure aborts the batch.
func StatsCollection(c trace.Collection, ev *Event, sta Station, method Method, opts ...Option) (trace.Collection, error) {
	if !method.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMethod, method)
	}

	cfg := newConfig(opts)

	var kept trace.Collection

	for _, tr := range c {
		err := rfstats(&tr.Stats, ev, sta, method, &cfg)

		switch {
		case errors.Is(err, ErrDistanceOutOfRange):
			continue
		case err != nil:
			return nil, fmt.Errorf("%s: %w", tr.ID(), err)
		}

		kept = append(kept, tr)
	}

	return kept, nil
}
