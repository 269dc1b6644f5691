package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
)

// EventsOptions holds options for the events command.
type EventsOptions struct {
	Session  string
	Dataset  string
	Limit    int
	Sessions bool
}

// NewEventsCommand creates the events command.
func NewEventsCommand() *cobra.Command {
	opts := &EventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recorded table interaction events",
		Long: `Show the interaction events recorded in the state database: searches,
filters, sorts, page changes, selections, exports and row clicks, newest
first.

Every CLI invocation and every browser session of the web UI is its own
session. Use --sessions to list sessions with their event counts.`,
		Example: `  # Latest events
  dashgrid events

  # Events of one dataset as JSON
  dashgrid events --dataset operators -o json

  # Sessions
  dashgrid events --sessions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvents(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "Only events of this session")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "Only events of this dataset")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 50, "Maximum number of rows")
	cmd.Flags().BoolVar(&opts.Sessions, "sessions", false, "List sessions instead of events")

	return cmd
}

func runEvents(cmd *cobra.Command, opts *EventsOptions) error {
	cc := NewCommandContextWithoutCatalog(cmd)
	ctx := cmd.Context()
	r := cc.Renderer

	store, err := analytics.Open(cc.Cfg.StatePath, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Stop(ctx) }()

	if opts.Sessions {
		sessions, err := store.ListSessions(ctx, opts.Limit)
		if err != nil {
			return err
		}
		if ok, err := r.Structured(sessions); ok {
			return err
		}
		rows := make([][]string, len(sessions))
		for i, s := range sessions {
			rows[i] = []string{s.ID, s.StartedAt.Local().Format(time.DateTime), strconv.Itoa(s.Events)}
		}
		return renderList(r, "Sessions", "No sessions recorded", []string{"Session", "Started", "Events"}, rows)
	}

	events, err := store.ListEvents(ctx, analytics.EventFilter{
		SessionID: opts.Session,
		Dataset:   opts.Dataset,
		Limit:     opts.Limit,
	})
	if err != nil {
		return err
	}
	if ok, err := r.Structured(events); ok {
		return err
	}

	rows := make([][]string, len(events))
	for i, e := range events {
		props := ""
		if len(e.Props) > 0 {
			b, _ := json.Marshal(e.Props)
			props = string(b)
		}
		rows[i] = []string{e.At.Local().Format(time.DateTime), e.Name, e.Dataset, props, shortID(e.SessionID)}
	}
	return renderList(r, "Events", "No events recorded", []string{"Time", "Event", "Dataset", "Props", "Session"}, rows)
}

func renderList(r *output.Renderer, title, empty string, header []string, rows [][]string) error {
	mode := r.EffectiveMode()
	if len(rows) == 0 && mode != output.ModeCSV {
		if mode == output.ModeText {
			r.Muted(empty)
		} else {
			r.Println(empty)
		}
		return nil
	}
	if mode == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, title))
		r.Println("")
	}
	return r.Table(header, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
