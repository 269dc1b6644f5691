package stats

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Ranked is one entry of a ranking.
type Ranked struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
	Rank  int     `json:"rank" yaml:"rank"`
}

// Rank orders rows by the numeric column value, highest first, and assigns
// 1-based ranks. Rows whose value is not numeric are skipped. Ties keep their
// input order.
func Rank(rows []grid.Row, key, value string) []Ranked {
	out := make([]Ranked, 0, len(rows))
	for _, row := range rows {
		v, ok := Number(row[value])
		if !ok {
			continue
		}
		out = append(out, Ranked{Key: grid.Stringify(row[key]), Value: v})
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(b.Value, a.Value)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Change describes how one key moved between two rankings.
type Change struct {
	Key      string `json:"key" yaml:"key"`
	Rank     int    `json:"rank" yaml:"rank"`
	Previous int    `json:"previous,omitempty" yaml:"previous,omitempty"`
	// Delta is positive when the key moved up.
	Delta int  `json:"delta" yaml:"delta"`
	New   bool `json:"new,omitempty" yaml:"new,omitempty"`
}

// RankChanges compares cur against prev, in the order of cur. Keys absent from
// prev are flagged New with a zero Delta.
func RankChanges(prev, cur []Ranked) []Change {
	before := make(map[string]int, len(prev))
	for _, r := range prev {
		before[r.Key] = r.Rank
	}
	out := make([]Change, len(cur))
	for i, r := range cur {
		c := Change{Key: r.Key, Rank: r.Rank}
		if p, ok := before[r.Key]; ok {
			c.Previous = p
			c.Delta = p - r.Rank
		} else {
			c.New = true
		}
		out[i] = c
	}
	return out
}

// ColumnValues extracts the numeric values of column key, skipping cells that
// are not numeric.
func ColumnValues(rows []grid.Row, key string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := Number(row[key]); ok {
			out = append(out, v)
		}
	}
	return out
}

// Number coerces a cell to float64. Numeric strings are parsed.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
