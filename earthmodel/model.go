// Package earthmodel provides a layered 1D earth model for piercing
// point ray tracing and moveout correction of receiver functions.
//
// A [Model] is a stack of constant-velocity layers. Piercing points
// follow the converted leg of the ray from the station down to an
// interface depth; moveout correction remaps the delay axis of a
// receiver function from its recorded slowness to a reference slowness
// through the converted-phase delay integral.
//
// Models load from YAML files; a coarse iasp91 profile ships embedded.
package earthmodel

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-seis/geodetics"
	"github.com/cwbudde/algo-seis/trace"
)

// Model errors.
var (
	// ErrBadModel indicates an empty or inconsistent layer stack.
	ErrBadModel = errors.New("earthmodel: malformed model")
	// ErrMissingStats indicates a trace lacking the stats fields the
	// operation needs (slowness, back azimuth, station coordinates or
	// onset).
	ErrMissingStats = errors.New("earthmodel: required stats field missing")
)

// Layer is one constant-velocity slab.
type Layer struct {
	ThicknessKm float64 `yaml:"thickness_km"`
	VP          float64 `yaml:"vp"`
	VS          float64 `yaml:"vs"`
}

// Model is a layered 1D velocity model.
type Model struct {
	Name   string  `yaml:"model"`
	Layers []Layer `yaml:"layers"`
}

//go:embed iasp91.yaml
var iasp91Raw []byte

var (
	iasp91Once  sync.Once
	iasp91Model *Model
)

// IASP91 returns the embedded coarse iasp91 profile.
func IASP91() *Model {
	iasp91Once.Do(func() {
		m, err := Parse(iasp91Raw)
		if err != nil {
			panic(err)
		}

		iasp91Model = m
	})

	return iasp91Model
}

// Load reads a layered model from a YAML file.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("earthmodel: reading model: %w", err)
	}

	return Parse(raw)
}

// Parse builds a model from YAML bytes.
func Parse(raw []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("earthmodel: parsing model: %w", err)
	}

	if len(m.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrBadModel)
	}

	for i, l := range m.Layers {
		if l.ThicknessKm <= 0 || l.VP <= 0 || l.VS <= 0 {
			return nil, fmt.Errorf("%w: layer %d", ErrBadModel, i)
		}
	}

	return &m, nil
}

// DepthKm returns the total model depth.
func (m *Model) DepthKm() float64 {
	var z float64
	for _, l := range m.Layers {
		z += l.ThicknessKm
	}

	return z
}

// Ppoint traces the converted leg of the given phase from the station
// down to depthKm and stores the piercing point coordinates and depth
// in stats. It needs slowness, back azimuth and station coordinates.
func (m *Model) Ppoint(st *trace.Stats, depthKm float64, phase string) error {
	slowness, ok1 := st.Float(trace.Slowness)
	baz, ok2 := st.Float(trace.BackAzimuth)
	lat, ok3 := st.Float(trace.StationLatitude)
	lon, ok4 := st.Float(trace.StationLongitude)

	if !ok1 || !ok2 || !ok3 || !ok4 {
		return fmt.Errorf("%w: ppoint needs slowness, back_azimuth and station coordinates", ErrMissingStats)
	}

	pKm := slowness / geodetics.DegreeToKilometer(1)
	useS := phaseUsesS(phase)

	var offsetKm, z float64

	for _, l := range m.Layers {
		if z >= depthKm {
			break
		}

		dz := l.ThicknessKm
		if z+dz > depthKm {
			dz = depthKm - z
		}

		v := l.VP
		if useS {
			v = l.VS
		}

		sinTheta := pKm * v
		if sinTheta >= 1 {
			sinTheta = 1 - 1e-9 // grazing ray, clamp
		}

		offsetKm += dz * math.Tan(math.Asin(sinTheta))
		z += dz
	}

	pLat, pLon := geodetics.Direct(lat, lon, baz, offsetKm*1000)

	st.Set(trace.PPLatitude, pLat)
	st.Set(trace.PPLongitude, pLon)
	st.Set(trace.PPDepth, depthKm)

	return nil
}

// Moveout remaps every trace's delay axis from its recorded slowness to
// refSlowness for the given converted phase (Ps or Sp; multiples
// degrade to the primary legs). Samples before the onset are left
// untouched. Data is modified in place.
func (m *Model) Moveout(c trace.Collection, phase string, refSlowness float64) error {
	for _, tr := range c {
		if err := m.moveoutTrace(tr, refSlowness); err != nil {
			return fmt.Errorf("%s: %w", tr.ID(), err)
		}
	}

	return nil
}

func (m *Model) moveoutTrace(tr *trace.Trace, refSlowness float64) error {
	st := &tr.Stats

	slowness, ok := st.Float(trace.Slowness)
	if !ok {
		return fmt.Errorf("%w: moveout needs slowness", ErrMissingStats)
	}

	onset, ok := st.Time(trace.Onset)
	if !ok {
		return fmt.Errorf("%w: moveout needs onset", ErrMissingStats)
	}

	if st.SamplingRate <= 0 || len(tr.Data) == 0 {
		return nil
	}

	if slowness == refSlowness {
		return nil
	}

	from := m.delayProfile(slowness)
	to := m.delayProfile(refSlowness)

	dt := st.Delta()
	onsetIdx := onset.Sub(st.StartTime).Seconds() / dt

	out := make([]float64, len(tr.Data))
	copy(out, tr.Data)

	for j := range out {
		tau := (float64(j) - onsetIdx) * dt
		if tau <= 0 {
			continue
		}

		// Depth whose reference-slowness delay equals tau, then the
		// recorded-slowness delay of that same depth.
		z := to.invert(tau)
		tauIn := from.at(z)

		pos := onsetIdx + tauIn/dt
		out[j] = sampleAt(tr.Data, pos)
	}

	tr.Data = out

	return nil
}

// delayProfile is the cumulative converted-phase delay as a piecewise
// linear function of depth.
type delayProfile struct {
	depths []float64 // layer bottoms, cumulative km
	delays []float64 // cumulative delay at each bottom, s
	grad   float64   // delay gradient of the deepest layer, s/km
}

// delayProfile integrates sqrt(vs^-2 - p^2) - sqrt(vp^-2 - p^2) layer
// by layer. The integrand is identical for Ps and Sp.
func (m *Model) delayProfile(slownessSecDeg float64) delayProfile {
	p := slownessSecDeg / geodetics.DegreeToKilometer(1)

	dp := delayProfile{
		depths: make([]float64, 0, len(m.Layers)),
		delays: make([]float64, 0, len(m.Layers)),
	}

	var z, t float64

	for _, l := range m.Layers {
		qs := vertSlowness(l.VS, p)
		qp := vertSlowness(l.VP, p)
		grad := qs - qp

		z += l.ThicknessKm
		t += grad * l.ThicknessKm

		dp.depths = append(dp.depths, z)
		dp.delays = append(dp.delays, t)
		dp.grad = grad
	}

	return dp
}

func vertSlowness(v, p float64) float64 {
	q := 1/(v*v) - p*p
	if q <= 0 {
		return 0 // evanescent, no vertical propagation
	}

	return math.Sqrt(q)
}

// at evaluates the cumulative delay at depth z, extrapolating below the
// model bottom with the deepest layer's gradient.
func (dp delayProfile) at(z float64) float64 {
	var z0, t0 float64

	for i, zb := range dp.depths {
		if z <= zb {
			frac := 0.0
			if zb > z0 {
				frac = (z - z0) / (zb - z0)
			}

			return t0 + frac*(dp.delays[i]-t0)
		}

		z0, t0 = zb, dp.delays[i]
	}

	return t0 + (z-z0)*dp.grad
}

// invert returns the depth whose cumulative delay equals t,
// extrapolating below the model bottom.
func (dp delayProfile) invert(t float64) float64 {
	var z0, t0 float64

	for i, tb := range dp.delays {
		if t <= tb {
			frac := 0.0
			if tb > t0 {
				frac = (t - t0) / (tb - t0)
			}

			return z0 + frac*(dp.depths[i]-z0)
		}

		z0, t0 = dp.depths[i], tb
	}

	if dp.grad <= 0 {
		return z0
	}

	return z0 + (t-t0)/dp.grad
}

// sampleAt linearly interpolates data at a fractional index; positions
// outside the trace map to zero.
func sampleAt(data []float64, pos float64) float64 {
	if pos < 0 || pos > float64(len(data)-1) {
		return 0
	}

	i := int(pos)
	if i >= len(data)-1 {
		return data[len(data)-1]
	}

	frac := pos - float64(i)

	return data[i]*(1-frac) + data[i+1]*frac
}

// phaseUsesS reports whether the traced leg of a phase name is an
// S wave. The deciding leg is the last one ("Ps" pierces as s).
func phaseUsesS(phase string) bool {
	if phase == "" {
		return false
	}

	return strings.EqualFold(phase[len(phase)-1:], "s")
}
