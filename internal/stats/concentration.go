// Package stats computes distribution and ranking metrics over dataset
// columns: concentration (Gini, Herfindahl, top-N shares), Lorenz curves and
// rank movement.
package stats

import (
	"errors"
	"math"
	"slices"
)

// ErrNoData is returned when a metric needs at least one positive value.
var ErrNoData = errors.New("no data")

// Metrics summarizes how concentrated a distribution is.
type Metrics struct {
	Gini       float64 `json:"gini_coefficient" yaml:"gini_coefficient"`
	Top1       float64 `json:"top_1_percent" yaml:"top_1_percent"`
	Top5       float64 `json:"top_5_percent" yaml:"top_5_percent"`
	Top10      float64 `json:"top_10_percent" yaml:"top_10_percent"`
	Top20      float64 `json:"top_20_percent" yaml:"top_20_percent"`
	Herfindahl float64 `json:"herfindahl_index" yaml:"herfindahl_index"`
	Total      float64 `json:"total" yaml:"total"`
	Count      int     `json:"count" yaml:"count"`
}

// Concentration computes Metrics for values. Top-N shares are percentages of
// the total held by the N largest values. It returns ErrNoData when values is
// empty or sums to zero.
func Concentration(values []float64) (Metrics, error) {
	n := len(values)
	if n == 0 {
		return Metrics{}, ErrNoData
	}

	asc := slices.Clone(values)
	slices.Sort(asc)

	var total, weighted float64
	for i, v := range asc {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return Metrics{}, ErrNoData
	}

	fn := float64(n)
	gini := 2*weighted/(fn*total) - (fn+1)/fn

	var hhi float64
	for _, v := range asc {
		share := v / total
		hhi += share * share
	}

	return Metrics{
		Gini:       round(clamp(gini, 0, 1), 4),
		Top1:       round(topShare(asc, total, 1), 2),
		Top5:       round(topShare(asc, total, 5), 2),
		Top10:      round(topShare(asc, total, 10), 2),
		Top20:      round(topShare(asc, total, 20), 2),
		Herfindahl: round(hhi, 4),
		Total:      total,
		Count:      n,
	}, nil
}

// topShare returns the percentage of total held by the k largest values of
// the ascending slice asc.
func topShare(asc []float64, total float64, k int) float64 {
	var sum float64
	for i := len(asc) - 1; i >= 0 && i >= len(asc)-k; i-- {
		sum += asc[i]
	}
	return sum / total * 100
}

// Point is one vertex of a Lorenz curve.
type Point struct {
	Population float64 `json:"population" yaml:"population"`
	Share      float64 `json:"share" yaml:"share"`
}

// Lorenz returns the Lorenz curve of values: for each prefix of the ascending
// values, the fraction of the population against the fraction of the total
// it holds. The curve starts at (0,0) and ends at (1,1).
func Lorenz(values []float64) ([]Point, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	asc := slices.Clone(values)
	slices.Sort(asc)

	var total float64
	for _, v := range asc {
		total += v
	}
	if total == 0 {
		return nil, ErrNoData
	}

	points := make([]Point, 0, len(asc)+1)
	points = append(points, Point{})
	var cum float64
	for i, v := range asc {
		cum += v
		points = append(points, Point{
			Population: float64(i+1) / float64(len(asc)),
			Share:      cum / total,
		})
	}
	points[len(points)-1] = Point{Population: 1, Share: 1}
	return points, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
