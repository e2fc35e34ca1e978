package rf

import (
	"github.com/cwbudde/algo-seis/deconv"
	"github.com/cwbudde/algo-seis/earthmodel"
	"github.com/cwbudde/algo-seis/rotate"
	"github.com/cwbudde/algo-seis/taup"
	"github.com/cwbudde/algo-seis/trace"
)

type config struct {
	warn func(error)

	// geometry
	model     taup.Model
	earth     *earthmodel.Model
	distRange *[2]float64
	phase     string
	ppDepth   float64
	ppSet     bool
	ppPhase   string

	// pipeline
	filter     *trace.FilterSpec
	window     *[2]float64
	targetRate float64
	rotation   string
	deconvOn   bool
	deconvMode deconv.Mode
	deconvOpts []deconv.Option
	source     string
}

// Option configures [Stats], [StatsCollection] and [Process]. Options
// that do not apply to the called operation are ignored.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		rotation:   rotate.SpecZNELQT,
		deconvOn:   true,
		deconvMode: deconv.Time,
		source:     "LZ",
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.model == nil {
		cfg.model = taup.IASP91()
	}

	if cfg.earth == nil {
		cfg.earth = earthmodel.IASP91()
	}

	return cfg
}

// WithWarningHandler registers a handler for non-fatal reports
// (ambiguous arrivals, incomplete component groups, traces skipped
// while windowing). Without a handler, warnings are dropped.
func WithWarningHandler(h func(error)) Option {
	return func(cfg *config) {
		cfg.warn = h
	}
}

// WithTravelTimeModel replaces the embedded iasp91 travel-time table.
func WithTravelTimeModel(m taup.Model) Option {
	return func(cfg *config) {
		if m != nil {
			cfg.model = m
		}
	}
}

// WithEarthModel replaces the embedded iasp91 layered model used for
// piercing points.
func WithEarthModel(m *earthmodel.Model) Option {
	return func(cfg *config) {
		if m != nil {
			cfg.earth = m
		}
	}
}

// WithDistanceRange replaces the method's default epicentral distance
// window (degrees, closed interval).
func WithDistanceRange(min, max float64) Option {
	return func(cfg *config) {
		if max >= min {
			cfg.distRange = &[2]float64{min, max}
		}
	}
}

// WithPhase replaces the queried phase name, for example "PP". The
// method still decides defaults for distance range and deconvolution.
func WithPhase(phase string) Option {
	return func(cfg *config) {
		if phase != "" {
			cfg.phase = phase
		}
	}
}

// WithPiercing enables piercing-point computation at the given
// interface depth. An empty phase selects the method's converted leg
// (S for P receiver functions, P for S receiver functions).
func WithPiercing(depthKm float64, phase string) Option {
	return func(cfg *config) {
		if depthKm > 0 {
			cfg.ppSet = true
			cfg.ppDepth = depthKm
			cfg.ppPhase = phase
		}
	}
}

// WithFilter enables the filter stage of [Process].
func WithFilter(spec trace.FilterSpec) Option {
	return func(cfg *config) {
		cfg.filter = &spec
	}
}

// WithWindow enables the windowing stage of [Process]: traces are
// trimmed to [onset+start, onset+end] seconds.
func WithWindow(start, end float64) Option {
	return func(cfg *config) {
		if end > start {
			cfg.window = &[2]float64{start, end}
		}
	}
}

// WithTargetRate enables the resampling stage of [Process]. Traces
// above the target rate are decimated; traces at or below it are left
// untouched.
func WithTargetRate(rate float64) Option {
	return func(cfg *config) {
		if rate > 0 {
			cfg.targetRate = rate
		}
	}
}

// WithRotation replaces the default "ZNE->LQT" rotation spec of
// [Process].
func WithRotation(spec string) Option {
	return func(cfg *config) {
		if spec != "" {
			cfg.rotation = spec
		}
	}
}

// WithoutRotation disables the rotation stage of [Process].
func WithoutRotation() Option {
	return func(cfg *config) {
		cfg.rotation = ""
	}
}

// WithDeconvolution replaces the default time-domain deconvolution of
// [Process]. The deconv options are passed through; they override the
// method's default source window.
func WithDeconvolution(mode deconv.Mode, opts ...deconv.Option) Option {
	return func(cfg *config) {
		cfg.deconvOn = true
		cfg.deconvMode = mode
		cfg.deconvOpts = opts
	}
}

// WithoutDeconvolution disables the deconvolution stage of [Process].
func WithoutDeconvolution() Option {
	return func(cfg *config) {
		cfg.deconvOn = false
	}
}

// WithSourceComponents replaces the default "LZ" set of channel
// suffixes designating the source component.
func WithSourceComponents(suffixes string) Option {
	return func(cfg *config) {
		if suffixes != "" {
			cfg.source = suffixes
		}
	}
}
