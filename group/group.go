// Package group assembles synchronized component sets from a trace
// collection.
//
// Rotation and deconvolution need simultaneous access to the 2 or 3
// directional components of one event/station pair. The grouper scans a
// collection in order and yields every maximal run of consecutive traces
// sharing a grouping key (by default the onset time) whose length is in
// the allowed size set. Runs of any other length indicate incomplete or
// duplicated component sets; they are reported, never silently dropped.
//
// Grouping is consecutive-run based, so callers must sort the collection
// (trace.Collection.SortForGrouping) when adjacency is not already
// guaranteed.
package group

import (
	"errors"
	"fmt"
	"iter"

	"github.com/cwbudde/algo-seis/trace"
)

// ErrIncompleteGroup tags the report for a run whose length is not in
// the allowed size set. Strict callers may escalate it from their
// warning handler.
var ErrIncompleteGroup = errors.New("group: run length not in allowed sizes")

// KeyFunc extracts the grouping key of a trace. The second return value
// reports whether the trace has the key at all; keyless traces always
// form runs of their own.
type KeyFunc func(*trace.Trace) (any, bool)

// OnsetKey groups by the onset time stats field.
func OnsetKey(tr *trace.Trace) (any, bool) {
	t, ok := tr.Stats.Time(trace.Onset)
	if !ok {
		return nil, false
	}

	return t.UnixNano(), true
}

type config struct {
	key   KeyFunc
	sizes map[int]struct{}
	warn  func(error)
}

// Option configures a Grouper.
type Option func(*config)

// WithKey replaces the default onset grouping key.
func WithKey(key KeyFunc) Option {
	return func(cfg *config) {
		if key != nil {
			cfg.key = key
		}
	}
}

// WithSizes replaces the default allowed group sizes {2, 3}.
func WithSizes(sizes ...int) Option {
	return func(cfg *config) {
		if len(sizes) == 0 {
			return
		}

		cfg.sizes = make(map[int]struct{}, len(sizes))
		for _, n := range sizes {
			cfg.sizes[n] = struct{}{}
		}
	}
}

// WithWarningHandler registers a handler for incomplete-run reports.
// Reports are always also collected on the Grouper.
func WithWarningHandler(h func(error)) Option {
	return func(cfg *config) {
		cfg.warn = h
	}
}

// Grouper yields component sets from trace collections.
type Grouper struct {
	cfg      config
	warnings []error
}

// New creates a grouper. Without options it groups by onset into sets
// of 2 or 3.
func New(opts ...Option) *Grouper {
	cfg := config{
		key:   OnsetKey,
		sizes: map[int]struct{}{2: {}, 3: {}},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Grouper{cfg: cfg}
}

// Groups returns a lazy, restartable sequence over the component sets
// of c. Each yielded collection shares trace pointers with c, so
// in-place mutation of a group mutates the source collection. Collected
// warnings reset at the start of every pass.
func (g *Grouper) Groups(c trace.Collection) iter.Seq[trace.Collection] {
	return func(yield func(trace.Collection) bool) {
		g.warnings = g.warnings[:0]

		for start := 0; start < len(c); {
			end := start + 1
			key, keyed := g.cfg.key(c[start])

			for keyed && end < len(c) {
				next, ok := g.cfg.key(c[end])
				if !ok || next != key {
					break
				}

				end++
			}

			run := c[start:end]
			start = end

			if _, ok := g.cfg.sizes[len(run)]; !ok {
				g.report(run)
				continue
			}

			if !yield(run) {
				return
			}
		}
	}
}

// Warnings returns the incomplete-run reports collected during the most
// recent pass over Groups.
func (g *Grouper) Warnings() []error {
	return g.warnings
}

func (g *Grouper) report(run trace.Collection) {
	err := fmt.Errorf("%w: run of %d trace(s) starting at %s",
		ErrIncompleteGroup, len(run), run[0].ID())

	g.warnings = append(g.warnings, err)

	if g.cfg.warn != nil {
		g.cfg.warn(err)
	}
}
