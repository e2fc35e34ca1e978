// Package profile stacks receiver functions into a 2D profile by
// piercing-point location.
//
// A profile is a line of adjacent distance bins (boxes) starting at a
// coordinate and running along an azimuth. Traces with precomputed
// piercing points fall into the box enclosing their piercing point;
// traces in the same box and with the same component are averaged into
// one profile trace.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-seis/geodetics"
	"github.com/cwbudde/algo-seis/trace"
)

// Profile errors.
var (
	// ErrBadBins indicates fewer than two bin edges or a non-ascending
	// edge sequence.
	ErrBadBins = errors.New("profile: bin edges must be at least two ascending values")
	// ErrLengthMismatch indicates traces of unequal sample count within
	// one profile box.
	ErrLengthMismatch = errors.New("profile: traces in one box differ in length")
)

// Stats fields attached to profile traces.
const (
	BoxPosition      trace.Field = "box_position"
	BoxLength        trace.Field = "box_length"
	BoxLatitude      trace.Field = "box_latitude"
	BoxLongitude     trace.Field = "box_longitude"
	ProfileLatitude  trace.Field = "profile_latitude"
	ProfileLongitude trace.Field = "profile_longitude"
	ProfileAzimuth   trace.Field = "profile_azimuth"
	ProfileLength    trace.Field = "profile_length"
	StackCount       trace.Field = "num"
)

// defaultWidthKm effectively disables the cross-profile cut.
const defaultWidthKm = 2000

// Box is one distance bin of a profile.
type Box struct {
	// StartKm and LengthKm delimit the bin along the profile.
	StartKm  float64
	LengthKm float64
	// PositionKm is the bin midpoint, in km from the profile start.
	PositionKm float64
	// Latitude and Longitude locate the bin midpoint.
	Latitude  float64
	Longitude float64
}

// Layout is a profile line with its distance bins.
type Layout struct {
	// Latitude and Longitude locate the profile start.
	Latitude  float64
	Longitude float64
	// Azimuth is the profile direction in degrees.
	Azimuth float64
	// WidthKm is the cross-profile acceptance width.
	WidthKm float64
	// LengthKm spans from the first to the last bin edge.
	LengthKm float64

	Boxes []Box
}

// Boxes lays out a profile starting at (lat, lon) along azimuth with
// the given ascending bin edges in km. A non-positive width selects a
// cut wide enough to accept everything.
func Boxes(lat, lon, azimuth float64, binEdgesKm []float64, widthKm float64) (*Layout, error) {
	if len(binEdgesKm) < 2 {
		return nil, ErrBadBins
	}

	for i := 1; i < len(binEdgesKm); i++ {
		if binEdgesKm[i] <= binEdgesKm[i-1] {
			return nil, fmt.Errorf("%w: edge %d", ErrBadBins, i)
		}
	}

	if widthKm <= 0 {
		widthKm = defaultWidthKm
	}

	l := &Layout{
		Latitude:  lat,
		Longitude: lon,
		Azimuth:   azimuth,
		WidthKm:   widthKm,
		LengthKm:  binEdgesKm[len(binEdgesKm)-1] - binEdgesKm[0],
	}

	for i := 0; i < len(binEdgesKm)-1; i++ {
		start := binEdgesKm[i]
		length := binEdgesKm[i+1] - start
		pos := start + length/2

		mLat, mLon := geodetics.Direct(lat, lon, azimuth, pos*1000)

		l.Boxes = append(l.Boxes, Box{
			StartKm:    start,
			LengthKm:   length,
			PositionKm: pos,
			Latitude:   mLat,
			Longitude:  mLon,
		})
	}

	return l, nil
}

// locate projects a piercing point into profile coordinates and returns
// the enclosing box, or nil.
func (l *Layout) locate(lat, lon float64) *Box {
	distM, azimuth, _, err := geodetics.Inverse(l.Latitude, l.Longitude, lat, lon)
	if err != nil {
		return nil
	}

	distKm := distM / 1000
	rel := (azimuth - l.Azimuth) * math.Pi / 180

	along := distKm * math.Cos(rel)
	cross := distKm * math.Sin(rel)

	if math.Abs(cross) > l.WidthKm/2 {
		return nil
	}

	for i := range l.Boxes {
		b := &l.Boxes[i]
		if along >= b.StartKm && along <= b.StartKm+b.LengthKm {
			return b
		}
	}

	return nil
}

type binKey struct {
	pos  float64
	comp byte
}

type bin struct {
	sum   []float64
	count int
	stats trace.Stats
}

// Profile stacks the collection into profile traces. Traces without
// piercing-point coordinates or outside every box are skipped. The
// result is sorted by (channel, box position) and carries the box and
// profile geometry in its stats.
func Profile(c trace.Collection, l *Layout) (trace.Collection, error) {
	bins := make(map[binKey]*bin)

	var order []binKey

	for _, tr := range c {
		pLat, ok1 := tr.Stats.Float(trace.PPLatitude)
		pLon, ok2 := tr.Stats.Float(trace.PPLongitude)

		if !ok1 || !ok2 {
			continue
		}

		box := l.locate(pLat, pLon)
		if box == nil {
			continue
		}

		key := binKey{pos: box.PositionKm, comp: tr.Component()}

		b, ok := bins[key]
		if !ok {
			b = &bin{
				sum:   make([]float64, len(tr.Data)),
				stats: profileStats(tr, box, l),
			}
			bins[key] = b

			order = append(order, key)
		}

		if len(tr.Data) != len(b.sum) {
			return nil, fmt.Errorf("%w: box at %.1f km, component %c",
				ErrLengthMismatch, box.PositionKm, key.comp)
		}

		floats.Add(b.sum, tr.Data)
		b.count++
	}

	var out trace.Collection

	for _, key := range order {
		b := bins[key]
		floats.Scale(1/float64(b.count), b.sum)

		st := b.stats
		st.Set(StackCount, b.count)

		out = append(out, trace.New(b.sum, st))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stats.Channel != out[j].Stats.Channel {
			return out[i].Stats.Channel < out[j].Stats.Channel
		}

		pi, _ := out[i].Stats.Float(BoxPosition)
		pj, _ := out[j].Stats.Float(BoxPosition)

		return pi < pj
	})

	return out, nil
}

// profileStats builds the stats of one profile trace from its first
// member, the box and the profile geometry. Slowness and the moveout
// record carry over; the onset is re-attached as an offset.
func profileStats(tr *trace.Trace, box *Box, l *Layout) trace.Stats {
	st := trace.Stats{
		Channel:      "??" + string(tr.Component()),
		StartTime:    tr.Stats.StartTime,
		SamplingRate: tr.Stats.SamplingRate,
		Moveout:      tr.Stats.Moveout,
	}

	st.Set(BoxPosition, box.PositionKm)
	st.Set(BoxLength, box.LengthKm)
	st.Set(BoxLatitude, box.Latitude)
	st.Set(BoxLongitude, box.Longitude)
	st.Set(ProfileLatitude, l.Latitude)
	st.Set(ProfileLongitude, l.Longitude)
	st.Set(ProfileAzimuth, l.Azimuth)
	st.Set(ProfileLength, l.LengthKm)

	if s, ok := tr.Stats.Float(trace.Slowness); ok {
		st.Set(trace.Slowness, s)
	}

	if onset, ok := tr.Stats.Time(trace.Onset); ok {
		st.Set(trace.Onset, st.StartTime.Add(onset.Sub(tr.Stats.StartTime)))
	}

	return st
}
