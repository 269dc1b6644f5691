// Package analytics records table interaction events such as searches,
// sorts, selections and exports, grouped into sessions.
//
// Sinks have an explicit lifecycle: StartSession, any number of Track calls,
// periodic or explicit Flush, and Stop.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event is one recorded interaction.
type Event struct {
	ID        string         `json:"id" yaml:"id"`
	SessionID string         `json:"session_id" yaml:"session_id"`
	Name      string         `json:"name" yaml:"name"`
	Dataset   string         `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Props     map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	At        time.Time      `json:"at" yaml:"at"`
}

// Session groups the events of one browser session or CLI invocation.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Events    int       `json:"events" yaml:"events"`
}

// Sink receives events. Track must not block on I/O.
type Sink interface {
	StartSession(ctx context.Context) (string, error)
	Track(ctx context.Context, e Event)
	Flush(ctx context.Context) error
	Stop(ctx context.Context) error
}

func newID() string {
	return uuid.New().String()
}

// NopSink discards everything.
type NopSink struct{}

// StartSession implements Sink.
func (NopSink) StartSession(context.Context) (string, error) { return newID(), nil }

// Track implements Sink.
func (NopSink) Track(context.Context, Event) {}

// Flush implements Sink.
func (NopSink) Flush(context.Context) error { return nil }

// Stop implements Sink.
func (NopSink) Stop(context.Context) error { return nil }

// LogSink writes each event to a logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

// StartSession implements Sink.
func (s LogSink) StartSession(ctx context.Context) (string, error) {
	id := newID()
	s.Logger.DebugContext(ctx, "analytics session started", slog.String("session", id))
	return id, nil
}

// Track implements Sink.
func (s LogSink) Track(ctx context.Context, e Event) {
	s.Logger.DebugContext(ctx, "analytics event",
		slog.String("session", e.SessionID),
		slog.String("event", e.Name),
		slog.String("dataset", e.Dataset),
		slog.Any("props", e.Props))
}

// Flush implements Sink.
func (LogSink) Flush(context.Context) error { return nil }

// Stop implements Sink.
func (LogSink) Stop(context.Context) error { return nil }
