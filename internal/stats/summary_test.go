package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func dailyRows() []grid.Row {
	return []grid.Row{
		{"day": "2026-10-01", "op": "a", "v": 10.0},
		{"day": "2026-10-01", "op": "b", "v": 20.0},
		{"day": "2026-10-01", "op": "c", "v": 30.0},
		{"day": "2026-10-02T00:00:00Z", "op": "a", "v": 50.0},
		{"day": "2026-10-02T00:00:00Z", "op": "b", "v": 20.0},
		{"day": "2026-10-02T00:00:00Z", "op": "d", "v": 30.0},
	}
}

func TestSummarize_Flat(t *testing.T) {
	rows := []grid.Row{
		{"op": "a", "v": 1.0},
		{"op": "b", "v": 3.0},
		{"op": "c", "v": "2"},
		{"op": "d", "v": "n/a"},
	}

	s, err := Summarize(rows, SummaryOptions{Value: "v", Label: "op", Top: 2, Lorenz: true})
	require.NoError(t, err)

	assert.Equal(t, "v", s.Column)
	assert.Empty(t, s.Date)
	assert.Equal(t, 3, s.Metrics.Count)
	assert.InDelta(t, 6, s.Metrics.Total, 1e-9)
	require.Len(t, s.Top, 2)
	assert.Equal(t, Ranked{Key: "b", Value: 3, Rank: 1}, s.Top[0])
	assert.Equal(t, "c", s.Top[1].Key)
	assert.Nil(t, s.Changes)
	require.Len(t, s.Lorenz, 4)
	assert.Equal(t, Point{Population: 1, Share: 1}, s.Lorenz[3])
}

func TestSummarize_ByDay(t *testing.T) {
	s, err := Summarize(dailyRows(), SummaryOptions{Value: "v", Label: "op", Date: "day", Top: -1})
	require.NoError(t, err)

	assert.Equal(t, "2026-10-02", s.Date)
	assert.Equal(t, 3, s.Metrics.Count)
	assert.InDelta(t, 100, s.Metrics.Total, 1e-9)

	require.Len(t, s.Top, 3)
	assert.Equal(t, []string{"a", "d", "b"}, []string{s.Top[0].Key, s.Top[1].Key, s.Top[2].Key})

	require.Len(t, s.Changes, 3)
	// a climbs from 3rd, d is new, b slips from 2nd
	assert.Equal(t, Change{Key: "a", Rank: 1, Previous: 3, Delta: 2}, s.Changes[0])
	assert.Equal(t, Change{Key: "d", Rank: 2, New: true}, s.Changes[1])
	assert.Equal(t, Change{Key: "b", Rank: 3, Previous: 2, Delta: -1}, s.Changes[2])
}

func TestSummarize_History(t *testing.T) {
	s, err := Summarize(dailyRows(), SummaryOptions{Value: "v", Label: "op", Date: "day", History: "a", Window: 2})
	require.NoError(t, err)

	require.Len(t, s.History, 2)
	assert.Equal(t, "2026-10-01", s.History[0].Date)
	assert.Equal(t, 3, s.History[0].Rank)
	// mean(10, 50) = 30 ties d's 30 and sorts first by key
	assert.Equal(t, "2026-10-02", s.History[1].Date)
	assert.Equal(t, 1, s.History[1].Rank)
	assert.InDelta(t, 30, s.History[1].Average, 1e-9)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(nil, SummaryOptions{})
	require.ErrorIs(t, err, ErrNoValueColumn)

	_, err = Summarize(nil, SummaryOptions{Value: "v"})
	require.ErrorIs(t, err, ErrNoData)

	_, err = Summarize(dailyRows(), SummaryOptions{Value: "v", History: "a"})
	require.ErrorContains(t, err, "date column")

	_, err = Summarize([]grid.Row{{"v": 1.0}}, SummaryOptions{Value: "v", Date: "day"})
	require.ErrorIs(t, err, ErrNoData)
}

func TestSeries(t *testing.T) {
	series := Series(dailyRows(), "op", "day", "v")
	assert.Len(t, series, 4)
	assert.Equal(t, []Daily{{Date: "2026-10-01", Value: 10}, {Date: "2026-10-02", Value: 50}}, series["a"])
}
