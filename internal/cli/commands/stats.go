package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/stats"
)

// StatsOptions holds options for the stats command.
type StatsOptions struct {
	Summary stats.SummaryOptions
	Search  string
	Filters []string
}

// StatsResult is the structured output of the stats command.
type StatsResult struct {
	Dataset       string `json:"dataset" yaml:"dataset"`
	stats.Summary `yaml:",inline"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <dataset>",
		Short: "Show concentration metrics and rankings for a numeric column",
		Long: `Compute how concentrated a numeric column is across the rows of a dataset:
Gini coefficient, Herfindahl index and the share held by the top 1, 5, 10
and 20 entries, plus a ranking by value.

With --date the rows are split by day. Metrics and ranks use the latest day
and rank movement is reported against the day before. --history traces the
rolling-average rank of one entry over the most recent days.

Search and filters narrow the rows first, exactly as in the table command.`,
		Example: `  # Validator concentration across operators
  dashgrid stats operators --value validators

  # Latest day of a daily dataset with rank movement
  dashgrid stats daily --value performance --label operator --date day

  # 30-day rolling rank history of one operator
  dashgrid stats daily --value performance --label operator --date day --history 0xa1 --days 30`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Summary.Value, "value", "", "Numeric column to measure (required)")
	f.StringVar(&opts.Summary.Label, "label", "", "Column identifying entries (default: dataset key column)")
	f.StringVar(&opts.Summary.Date, "date", "", "Date column splitting rows by day")
	f.IntVar(&opts.Summary.Top, "top", stats.DefaultTop, "Number of ranked entries to show (-1 for all)")
	f.BoolVar(&opts.Summary.Lorenz, "lorenz", false, "Include the Lorenz curve")
	f.StringVar(&opts.Summary.History, "history", "", "Entry whose rolling rank history to show (requires --date)")
	f.IntVar(&opts.Summary.Days, "days", 30, "Days of rank history")
	f.IntVar(&opts.Summary.Window, "window", stats.DefaultWindow, "Rolling window in days")
	f.StringVarP(&opts.Search, "search", "s", "", "Global search across all columns")
	f.StringArrayVarP(&opts.Filters, "filter", "f", nil, "Column filter as column=text (repeatable)")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func runStats(cmd *cobra.Command, name string, opts *StatsOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	snap, err := cc.LoadDataset(cmd.Context(), name)
	if err != nil {
		return err
	}

	q := TableQuery{Search: opts.Search, Filters: opts.Filters}
	dq, err := q.Query()
	if err != nil {
		return err
	}
	summary, err := dataset.Summarize(snap, dq, opts.Summary)
	if err != nil {
		return err
	}
	result := StatsResult{Dataset: name, Summary: summary}

	if ok, err := r.Structured(result); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		renderStatsMarkdown(r, result)
		return nil
	case output.ModeCSV:
		return r.Table(rankingTable(result.Summary))
	default:
		return renderStatsText(r, result)
	}
}

func metricRows(m stats.Metrics) [][]string {
	return [][]string{
		{"Entries", strconv.Itoa(m.Count)},
		{"Total", formatFloat(m.Total)},
		{"Gini coefficient", formatFloat(m.Gini)},
		{"Herfindahl index", formatFloat(m.Herfindahl)},
		{"Top 1 share", formatFloat(m.Top1) + "%"},
		{"Top 5 share", formatFloat(m.Top5) + "%"},
		{"Top 10 share", formatFloat(m.Top10) + "%"},
		{"Top 20 share", formatFloat(m.Top20) + "%"},
	}
}

// rankingTable lays out the ranking, with movement when changes are known.
func rankingTable(s stats.Summary) ([]string, [][]string) {
	header := []string{"Rank", "Entry", s.Column}
	if s.Changes != nil {
		header = append(header, "Move")
	}
	rows := make([][]string, len(s.Top))
	for i, rk := range s.Top {
		rows[i] = []string{strconv.Itoa(rk.Rank), rk.Key, formatFloat(rk.Value)}
		if s.Changes != nil {
			rows[i] = append(rows[i], formatMove(s.Changes[i]))
		}
	}
	return header, rows
}

func historyTable(points []stats.HistoryPoint) ([]string, [][]string) {
	header := []string{"Date", "Rank", "Of", "Rolling avg", "Value"}
	rows := make([][]string, len(points))
	for i, p := range points {
		rank := "-"
		if p.Rank > 0 {
			rank = strconv.Itoa(p.Rank)
		}
		rows[i] = []string{p.Date, rank, strconv.Itoa(p.Total), formatFloat(p.Average), formatFloat(p.Value)}
	}
	return header, rows
}

func lorenzTable(points []stats.Point) ([]string, [][]string) {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{formatFloat(p.Population), formatFloat(p.Share)}
	}
	return []string{"Population", "Share"}, rows
}

func formatMove(c stats.Change) string {
	switch {
	case c.New:
		return "new"
	case c.Delta > 0:
		return fmt.Sprintf("▲%d", c.Delta)
	case c.Delta < 0:
		return fmt.Sprintf("▼%d", -c.Delta)
	default:
		return "="
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func statsTitle(res StatsResult) string {
	title := fmt.Sprintf("%s · %s", res.Dataset, res.Column)
	if res.Date != "" {
		title += " · " + res.Date
	}
	return title
}

func renderStatsMarkdown(r *output.Renderer, res StatsResult) {
	r.Println(output.FormatHeader(1, statsTitle(res)))
	r.Println("")
	for _, kv := range metricRows(res.Metrics) {
		r.Println(output.FormatKeyValue(kv[0], kv[1]))
	}

	r.Println("")
	r.Println(output.FormatHeader(2, "Ranking"))
	r.Println("")
	r.Println(output.FormatMarkdownTable(rankingTable(res.Summary)))

	if len(res.History) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Rank history"))
		r.Println("")
		r.Println(output.FormatMarkdownTable(historyTable(res.History)))
	}
	if len(res.Lorenz) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Lorenz curve"))
		r.Println("")
		r.Println(output.FormatMarkdownTable(lorenzTable(res.Lorenz)))
	}
}

func renderStatsText(r *output.Renderer, res StatsResult) error {
	r.Header(1, statsTitle(res))
	for _, kv := range metricRows(res.Metrics) {
		r.Printf("  %-18s %s\n", kv[0], r.Styles().Bold.Render(kv[1]))
	}

	r.Println("")
	r.Header(2, "Ranking")
	if err := r.Table(rankingTable(res.Summary)); err != nil {
		return err
	}

	if len(res.History) > 0 {
		r.Println("")
		r.Header(2, "Rank history")
		if err := r.Table(historyTable(res.History)); err != nil {
			return err
		}
	}
	if len(res.Lorenz) > 0 {
		r.Println("")
		r.Header(2, "Lorenz curve")
		if err := r.Table(lorenzTable(res.Lorenz)); err != nil {
			return err
		}
	}
	return nil
}
