package header

import (
	"fmt"

	"github.com/cwbudde/algo-seis/trace"
)

// indexTimeLayout is an ISO-8601-like, colon-free timestamp form usable
// as a path segment on every filesystem.
const indexTimeLayout = "2006-01-02T15-04-05"

// Index renders the hierarchical container lookup path for a trace. The
// key embeds identity, event time, channel and the trace span, so it is
// collision-free per trace and doubles as the on-disk path.
func Index(tr *trace.Trace) string {
	evt := "unknown"
	if t, ok := tr.Stats.Time(trace.EventTime); ok {
		evt = t.UTC().Format(indexTimeLayout)
	}

	return fmt.Sprintf("%s.%s.%s/%s/%s_%s_%s",
		tr.Stats.Network, tr.Stats.Station, tr.Stats.Location,
		evt,
		tr.Stats.Channel,
		tr.Stats.StartTime.UTC().Format(indexTimeLayout),
		tr.EndTime().UTC().Format(indexTimeLayout))
}

// StackIndex renders the coarser container path used for stacked traces,
// which no longer belong to a single event.
func StackIndex(tr *trace.Trace) string {
	return fmt.Sprintf("%s.%s.%s/%s",
		tr.Stats.Network, tr.Stats.Station, tr.Stats.Location, tr.Stats.Channel)
}
