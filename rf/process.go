package rf

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-seis/deconv"
	"github.com/cwbudde/algo-seis/group"
	"github.com/cwbudde/algo-seis/rotate"
	"github.com/cwbudde/algo-seis/trace"
)

// Process turns the collection into receiver functions in place,
// running the stages strictly in order: filter, window, resample,
// rotate, deconvolve, S mirroring, polarity correction. Stages without
// a configured option are skipped; rotation (ZNE->LQT) and time-domain
// deconvolution run by default and are disabled with [WithoutRotation]
// and [WithoutDeconvolution].
//
// Rotation and deconvolution work on component groups keyed on the
// onset; deconvolution rebuilds the collection from the group outputs,
// which may resize it. Errors from the delegated stages propagate
// unmodified.
func Process(c *trace.Collection, method Method, opts ...Option) error {
	if !method.valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedMethod, method)
	}

	cfg := newConfig(opts)

	if cfg.filter != nil {
		if err := c.Filter(*cfg.filter); err != nil {
			return err
		}
	}

	if cfg.window != nil {
		if skipped := c.TrimRelative(cfg.window[0], cfg.window[1]); skipped > 0 && cfg.warn != nil {
			cfg.warn(fmt.Errorf("rf: window: %d trace(s) without onset left untrimmed", skipped))
		}
	}

	if cfg.targetRate > 0 {
		if err := c.Decimate(cfg.targetRate); err != nil {
			return err
		}
	}

	grouper := group.New(group.WithWarningHandler(cfg.warn))

	if cfg.rotation != "" {
		c.SortForGrouping()

		for grp := range grouper.Groups(*c) {
			if err := rotate.Rotate(grp, cfg.rotation); err != nil {
				return err
			}
		}
	}

	if cfg.deconvOn {
		if err := deconvolveGroups(c, method, grouper, &cfg); err != nil {
			return err
		}
	}

	if method == S {
		mirror(*c)
	}

	for _, tr := range *c {
		if !isSource(tr, cfg.source) {
			tr.Negate()
		}
	}

	return nil
}

func deconvolveGroups(c *trace.Collection, method Method, grouper *group.Grouper, cfg *config) error {
	start, end := method.defaultDeconvWindow()
	opts := append([]deconv.Option{deconv.WithSourceWindow(start, end)}, cfg.deconvOpts...)

	c.SortForGrouping()

	var out trace.Collection

	for grp := range grouper.Groups(*c) {
		res, err := deconv.Deconvolve(grp, cfg.deconvMode, cfg.source, opts...)
		if err != nil {
			return err
		}

		out = append(out, res...)
	}

	*c = out

	return nil
}

// mirror reverses every trace in time and moves the onset to
// start + (end - onset), aligning Sp precursors with the causal side
// the way P receiver functions are read.
func mirror(c trace.Collection) {
	for _, tr := range c {
		tr.Reverse()

		onset, ok := tr.Stats.Time(trace.Onset)
		if !ok {
			continue
		}

		offset := tr.EndTime().Sub(onset)
		tr.Stats.Set(trace.Onset, tr.Stats.StartTime.Add(offset))
	}
}

func isSource(tr *trace.Trace, suffixes string) bool {
	comp := tr.Component()
	if comp == 0 {
		return true
	}

	for i := 0; i < len(suffixes); i++ {
		if suffixes[i] == comp {
			return true
		}
	}

	return false
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
