package analytics

import (
	"context"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Tracker adapts a Sink to grid.EventSink for one session and dataset.
type Tracker struct {
	sink    Sink
	session string
	dataset string
}

var _ grid.EventSink = (*Tracker)(nil)

// NewTracker binds sink to a session and dataset.
func NewTracker(sink Sink, session, dataset string) *Tracker {
	return &Tracker{sink: sink, session: session, dataset: dataset}
}

// Track implements grid.EventSink.
func (t *Tracker) Track(name string, props map[string]any) {
	t.sink.Track(context.Background(), Event{
		SessionID: t.session,
		Name:      name,
		Dataset:   t.dataset,
		Props:     props,
	})
}
