// Package taup provides seismic travel-time lookups.
//
// The geometry engine only needs first arrivals of a named phase at a
// given source depth and epicentral distance. [Model] is that narrow
// contract; [TableModel] implements it by bilinear interpolation over a
// regular (depth, distance) grid loaded from a YAML file. A coarse
// iasp91 grid for the P and S phases ships embedded.
package taup

import (
	"errors"
	"fmt"
	"os"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// Table errors.
var (
	// ErrBadTable indicates an inconsistent or empty travel-time table.
	ErrBadTable = errors.New("taup: malformed travel-time table")
	// ErrUnknownPhase indicates a phase the table does not cover.
	ErrUnknownPhase = errors.New("taup: unknown phase")
)

// Arrival is one phase arrival at a receiver.
type Arrival struct {
	Phase string
	// Time is the travel time in seconds.
	Time float64
	// IncidenceAngle is the angle of incidence at the receiver in
	// degrees from vertical.
	IncidenceAngle float64
	// RayParam is the horizontal slowness in seconds per degree.
	RayParam float64
}

// Model answers travel-time queries. An empty arrival slice with a nil
// error means the phase does not arrive at the queried geometry, which
// callers must distinguish from lookup failures.
type Model interface {
	Arrivals(depthKm, distanceDeg float64, phase string) ([]Arrival, error)
}

type phaseTable struct {
	Phase      string      `yaml:"phase"`
	Depths     []float64   `yaml:"depths_km"`
	Distances  []float64   `yaml:"distances_deg"`
	RayParams  []float64   `yaml:"ray_params_sdeg"`
	Incidence  []float64   `yaml:"incidence_deg"`
	Times      [][]float64 `yaml:"times_s"`
}

type tableFile struct {
	Model  string       `yaml:"model"`
	Phases []phaseTable `yaml:"phases"`
}

// TableModel is a travel-time model backed by per-phase regular grids.
type TableModel struct {
	Name   string
	phases map[string]*phaseTable
}

//go:embed iasp91.yaml
var iasp91Raw []byte

var (
	iasp91Once  sync.Once
	iasp91Model *TableModel
)

// IASP91 returns the embedded coarse iasp91 table model.
func IASP91() *TableModel {
	iasp91Once.Do(func() {
		m, err := Parse(iasp91Raw)
		if err != nil {
			// The embedded table is validated by tests; a parse
			// failure here is a build defect.
			panic(err)
		}

		iasp91Model = m
	})

	return iasp91Model
}

// Load reads a travel-time table model from a YAML file.
func Load(path string) (*TableModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taup: reading table: %w", err)
	}

	return Parse(raw)
}

// Parse builds a table model from YAML bytes.
func Parse(raw []byte) (*TableModel, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("taup: parsing table: %w", err)
	}

	if len(f.Phases) == 0 {
		return nil, fmt.Errorf("%w: no phases", ErrBadTable)
	}

	m := &TableModel{
		Name:   f.Model,
		phases: make(map[string]*phaseTable, len(f.Phases)),
	}

	for i := range f.Phases {
		pt := &f.Phases[i]
		if err := pt.validate(); err != nil {
			return nil, err
		}

		m.phases[pt.Phase] = pt
	}

	return m, nil
}

func (pt *phaseTable) validate() error {
	if pt.Phase == "" || len(pt.Depths) < 2 || len(pt.Distances) < 2 {
		return fmt.Errorf("%w: phase %q: grid needs at least 2 depths and distances", ErrBadTable, pt.Phase)
	}

	if len(pt.RayParams) != len(pt.Distances) ||
		len(pt.Incidence) != len(pt.Distances) {
		return fmt.Errorf("%w: phase %q: ray/incidence row length", ErrBadTable, pt.Phase)
	}

	if len(pt.Times) != len(pt.Depths) {
		return fmt.Errorf("%w: phase %q: time row count", ErrBadTable, pt.Phase)
	}

	for _, row := range pt.Times {
		if len(row) != len(pt.Distances) {
			return fmt.Errorf("%w: phase %q: time row length", ErrBadTable, pt.Phase)
		}
	}

	return nil
}

// Arrivals implements [Model]. Queries outside the grid return no
// arrivals; the table itself stores exactly one branch per phase, so at
// most one arrival is returned.
func (m *TableModel) Arrivals(depthKm, distanceDeg float64, phase string) ([]Arrival, error) {
	pt, ok := m.phases[phase]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}

	if distanceDeg < pt.Distances[0] || distanceDeg > pt.Distances[len(pt.Distances)-1] {
		return nil, nil
	}

	if depthKm < pt.Depths[0] || depthKm > pt.Depths[len(pt.Depths)-1] {
		return nil, nil
	}

	di, df := locate(pt.Distances, distanceDeg)
	zi, zf := locate(pt.Depths, depthKm)

	t00 := pt.Times[zi][di]
	t01 := pt.Times[zi][di+1]
	t10 := pt.Times[zi+1][di]
	t11 := pt.Times[zi+1][di+1]

	t := (1-zf)*((1-df)*t00+df*t01) + zf*((1-df)*t10+df*t11)

	return []Arrival{{
		Phase:          phase,
		Time:           t,
		IncidenceAngle: (1-df)*pt.Incidence[di] + df*pt.Incidence[di+1],
		RayParam:       (1-df)*pt.RayParams[di] + df*pt.RayParams[di+1],
	}}, nil
}

// locate finds the cell index and fractional position of x in the
// ascending grid. x must be inside the grid span.
func locate(grid []float64, x float64) (int, float64) {
	i := len(grid) - 2

	for j := 0; j < len(grid)-1; j++ {
		if x <= grid[j+1] {
			i = j
			break
		}
	}

	span := grid[i+1] - grid[i]
	if span <= 0 {
		return i, 0
	}

	return i, (x - grid[i]) / span
}
