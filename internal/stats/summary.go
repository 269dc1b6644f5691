package stats

import (
	"errors"
	"slices"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// DefaultTop is the number of ranked entries kept in a Summary.
const DefaultTop = 10

// SummaryOptions selects the columns a Summary is computed from.
type SummaryOptions struct {
	// Value is the numeric column measured. Required.
	Value string
	// Label identifies an entry in rankings.
	Label string
	// Date, when set, splits rows by day: metrics and ranks use the latest
	// day and rank movement compares it with the day before.
	Date string
	// Top bounds the ranking; 0 means DefaultTop, negative means all.
	Top    int
	Lorenz bool
	// History names a label whose rolling rank is traced over Days days
	// with a Window-day mean. Requires Date.
	History string
	Days    int
	Window  int
}

// Summary is the statistics view of one dataset column.
type Summary struct {
	Column  string         `json:"column" yaml:"column"`
	Date    string         `json:"date,omitempty" yaml:"date,omitempty"`
	Metrics Metrics        `json:"metrics" yaml:"metrics"`
	Top     []Ranked       `json:"top" yaml:"top"`
	Changes []Change       `json:"changes,omitempty" yaml:"changes,omitempty"`
	Lorenz  []Point        `json:"lorenz,omitempty" yaml:"lorenz,omitempty"`
	History []HistoryPoint `json:"history,omitempty" yaml:"history,omitempty"`
}

// ErrNoValueColumn is returned when SummaryOptions.Value is empty.
var ErrNoValueColumn = errors.New("value column is required")

// Summarize computes concentration metrics and rankings over rows.
func Summarize(rows []grid.Row, opts SummaryOptions) (Summary, error) {
	if opts.Value == "" {
		return Summary{}, ErrNoValueColumn
	}
	if opts.History != "" && opts.Date == "" {
		return Summary{}, errors.New("rank history requires a date column")
	}

	s := Summary{Column: opts.Value}
	cur, prev := rows, []grid.Row(nil)
	if opts.Date != "" {
		days := byDay(rows, opts.Date)
		dates := sortedKeys(days)
		if len(dates) == 0 {
			return Summary{}, ErrNoData
		}
		s.Date = dates[len(dates)-1]
		cur = days[s.Date]
		if len(dates) > 1 {
			prev = days[dates[len(dates)-2]]
		}
	}

	m, err := Concentration(ColumnValues(cur, opts.Value))
	if err != nil {
		return Summary{}, err
	}
	s.Metrics = m

	ranked := Rank(cur, opts.Label, opts.Value)
	top := opts.Top
	if top == 0 {
		top = DefaultTop
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	s.Top = ranked
	if prev != nil {
		s.Changes = RankChanges(Rank(prev, opts.Label, opts.Value), ranked)
	}

	if opts.Lorenz {
		if s.Lorenz, err = Lorenz(ColumnValues(cur, opts.Value)); err != nil {
			return Summary{}, err
		}
	}

	if opts.History != "" {
		s.History = RollingRankHistory(Series(rows, opts.Label, opts.Date, opts.Value), opts.History, opts.Days, opts.Window)
	}
	return s, nil
}

// Series groups rows into per-label daily values. Rows with a non-numeric
// value or an empty date are skipped.
func Series(rows []grid.Row, label, date, value string) map[string][]Daily {
	out := make(map[string][]Daily)
	for _, row := range rows {
		d := day(row[date])
		v, ok := Number(row[value])
		if d == "" || !ok {
			continue
		}
		k := grid.Stringify(row[label])
		out[k] = append(out[k], Daily{Date: d, Value: v})
	}
	return out
}

func byDay(rows []grid.Row, date string) map[string][]grid.Row {
	out := make(map[string][]grid.Row)
	for _, row := range rows {
		if d := day(row[date]); d != "" {
			out[d] = append(out[d], row)
		}
	}
	return out
}

// day truncates timestamps to their YYYY-MM-DD prefix.
func day(v any) string {
	s := grid.Stringify(v)
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
