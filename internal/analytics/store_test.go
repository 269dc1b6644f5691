package analytics

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/testutil"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() { _ = store.Stop(context.Background()) })

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func TestStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	version, err := MigrationVersion(store.db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	for _, table := range []string{"sessions", "events"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if assert.NoError(t, err, "table %s does not exist", table) {
			_ = rows.Close()
		}
	}
}

func TestStore_TrackFlushList(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	session, err := store.StartSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session)

	store.Track(ctx, Event{SessionID: session, Name: "table.search", Dataset: "operators", Props: map[string]any{"query": "alpha"}})
	store.Track(ctx, Event{SessionID: session, Name: "table.export", Dataset: "operators", Props: map[string]any{"rows": 3}})
	store.Track(ctx, Event{SessionID: session, Name: "table.sort", Dataset: "clients"})
	assert.Equal(t, 3, store.Pending())

	events, err := store.ListEvents(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events, "nothing is written before a flush")

	require.NoError(t, store.Flush(ctx))
	assert.Zero(t, store.Pending())

	events, err = store.ListEvents(ctx, EventFilter{Dataset: "operators"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "table.export", events[0].Name, "newest first")
	assert.Equal(t, map[string]any{"rows": float64(3)}, events[0].Props)
	assert.Equal(t, "table.search", events[1].Name)
	assert.NotEmpty(t, events[1].ID)
	assert.Equal(t, session, events[1].SessionID)

	events, err = store.ListEvents(ctx, EventFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "table.sort", events[0].Name)
	assert.Nil(t, events[0].Props)

	sessions, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session, sessions[0].ID)
	assert.Equal(t, 3, sessions[0].Events)
}

func TestStore_SessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	first, err := store.StartSession(ctx)
	require.NoError(t, err)
	second, err := store.StartSession(ctx)
	require.NoError(t, err)

	store.Track(ctx, Event{SessionID: first, Name: "table.page"})
	require.NoError(t, store.Flush(ctx))

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID)
	assert.Zero(t, sessions[0].Events)
	assert.Equal(t, 1, sessions[1].Events)

	events, err := store.ListEvents(ctx, EventFilter{SessionID: second})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_UnencodablePropsAreDropped(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	store.Track(ctx, Event{SessionID: "s", Name: "bad", Props: map[string]any{"ch": make(chan int)}})
	store.Track(ctx, Event{SessionID: "s", Name: "good"})
	require.NoError(t, store.Flush(ctx))

	events, err := store.ListEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good", events[0].Name)
}

func TestStore_StopFlushesAndRejects(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	session, err := store.StartSession(ctx)
	require.NoError(t, err)
	store.Track(ctx, Event{SessionID: session, Name: "table.select"})

	require.NoError(t, store.Stop(ctx))
	require.NoError(t, store.Stop(ctx), "second stop is a no-op")

	store.Track(ctx, Event{SessionID: session, Name: "late"})
	assert.Zero(t, store.Pending())
	_, err = store.StartSession(ctx)
	assert.ErrorIs(t, err, ErrStopped)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Stop(ctx) }()

	events, err := reopened.ListEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "table.select", events[0].Name)
}

func TestStore_RunFlushesOnCancel(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Hour) }()

	store.Track(ctx, Event{SessionID: "s", Name: "table.page"})
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Zero(t, store.Pending())

	events, err := store.ListEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStore_RunFlushesWhenBufferFills(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = store.Run(ctx, time.Hour) }()

	for i := 0; i < maxBuffered; i++ {
		store.Track(ctx, Event{SessionID: "s", Name: "table.page"})
	}

	assert.Eventually(t, func() bool { return store.Pending() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestTracker(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	session, err := store.StartSession(ctx)
	require.NoError(t, err)

	tbl := grid.NewTable(
		[]grid.Row{{"name": "alice"}, {"name": "bob"}},
		[]grid.Column{{Key: "name", Sortable: true}},
		grid.Options{Searchable: true, Events: NewTracker(store, session, "people")},
	)
	require.NoError(t, tbl.SetSearch("bo"))
	tbl.ClickHeader("name")
	require.NoError(t, store.Flush(ctx))

	events, err := store.ListEvents(ctx, EventFilter{SessionID: session})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "table.sort", events[0].Name)
	assert.Equal(t, "people", events[0].Dataset)
	assert.Equal(t, map[string]any{"column": "name", "direction": "asc"}, events[0].Props)
	assert.Equal(t, "table.search", events[1].Name)
}

func TestLogSink(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()
	sink := LogSink{Logger: logger}
	ctx := context.Background()

	id, err := sink.StartSession(ctx)
	require.NoError(t, err)
	sink.Track(ctx, Event{SessionID: id, Name: "table.export", Dataset: "operators"})
	require.NoError(t, sink.Flush(ctx))
	require.NoError(t, sink.Stop(ctx))

	out := buf.String()
	assert.Contains(t, out, "analytics session started")
	assert.True(t, strings.Contains(out, "event=table.export"), out)
}

func TestNopSink(t *testing.T) {
	var sink Sink = NopSink{}
	ctx := context.Background()
	id, err := sink.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	sink.Track(ctx, Event{Name: "x"})
	assert.NoError(t, sink.Flush(ctx))
	assert.NoError(t, sink.Stop(ctx))
}
