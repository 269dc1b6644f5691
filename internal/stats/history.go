package stats

import (
	"cmp"
	"slices"
)

// DefaultWindow is the number of days averaged for rolling ranks.
const DefaultWindow = 7

// Daily is one day's value for a key. Date is formatted YYYY-MM-DD.
type Daily struct {
	Date  string  `json:"date" yaml:"date"`
	Value float64 `json:"value" yaml:"value"`
}

// HistoryPoint is the rank of one key on one day.
type HistoryPoint struct {
	Date string `json:"date" yaml:"date"`
	Rank int    `json:"rank" yaml:"rank"`
	// Average is the rolling mean the rank was computed from.
	Average float64 `json:"average" yaml:"average"`
	// Value is the single-day value.
	Value float64 `json:"value" yaml:"value"`
	Total int     `json:"total" yaml:"total"`
}

// RollingRankHistory ranks target on each of its most recent days (at most
// days of them) by the mean of the last window values of every key that has
// data for that day. Series entries may be in any order. The result is oldest
// first; it is empty when target has no data.
func RollingRankHistory(series map[string][]Daily, target string, days, window int) []HistoryPoint {
	if window <= 0 {
		window = DefaultWindow
	}

	sorted := make(map[string][]Daily, len(series))
	for k, s := range series {
		s = slices.Clone(s)
		slices.SortFunc(s, func(a, b Daily) int { return cmp.Compare(a.Date, b.Date) })
		sorted[k] = s
	}

	own := sorted[target]
	if days > 0 && len(own) > days {
		own = own[len(own)-days:]
	}

	keys := make([]string, 0, len(sorted))
	for k := range sorted {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	type avg struct {
		key   string
		value float64
	}

	out := make([]HistoryPoint, 0, len(own))
	for _, day := range own {
		avgs := make([]avg, 0, len(keys))
		for _, k := range keys {
			s := sorted[k]
			i, ok := slices.BinarySearchFunc(s, day.Date, func(d Daily, date string) int {
				return cmp.Compare(d.Date, date)
			})
			if !ok {
				continue
			}
			start := max(0, i-window+1)
			var sum float64
			for _, d := range s[start : i+1] {
				sum += d.Value
			}
			avgs = append(avgs, avg{key: k, value: round(sum/float64(i+1-start), 5)})
		}
		slices.SortStableFunc(avgs, func(a, b avg) int { return cmp.Compare(b.value, a.value) })

		p := HistoryPoint{Date: day.Date, Value: day.Value, Total: len(avgs)}
		for i, a := range avgs {
			if a.key == target {
				p.Rank = i + 1
				p.Average = a.value
				break
			}
		}
		out = append(out, p)
	}
	return out
}
