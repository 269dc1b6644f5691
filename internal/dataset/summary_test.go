package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/stats"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func TestSummarize(t *testing.T) {
	snap := loadedOperators(t)

	s, err := Summarize(snap, Query{}, stats.SummaryOptions{Value: "performance"})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Metrics.Count)
	require.NotEmpty(t, s.Top)
	assert.Equal(t, "0xa1", s.Top[0].Key, "label defaults to the key column")

	s, err = Summarize(snap, Query{Filters: map[string]string{"name": "beta"}, Page: 7}, stats.SummaryOptions{Value: "performance"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Metrics.Count)
}

func TestSummarize_UnknownColumn(t *testing.T) {
	snap := loadedOperators(t)

	_, err := Summarize(snap, Query{}, stats.SummaryOptions{Value: "missing"})
	assert.ErrorIs(t, err, grid.ErrUnknownColumn)

	_, err = Summarize(snap, Query{}, stats.SummaryOptions{Value: "performance", Date: "day"})
	assert.ErrorIs(t, err, grid.ErrUnknownColumn)
}
