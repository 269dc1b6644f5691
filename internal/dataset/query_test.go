package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/testutil"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func loadedOperators(t *testing.T) Snapshot {
	t.Helper()
	path := testutil.WriteFile(t, t.TempDir(), "operators.json", testutil.OperatorsJSON)
	cat, err := NewCatalog([]config.DatasetConfig{operatorsConfig(path)}, nil)
	require.NoError(t, err)
	require.NoError(t, cat.Load(context.Background()))
	snap, err := cat.Get("operators")
	require.NoError(t, err)
	return snap
}

func TestQuery_NewTable(t *testing.T) {
	snap := loadedOperators(t)

	tbl, err := Query{Sort: "performance", Desc: true, Page: 9}.NewTable(snap, nil)
	require.NoError(t, err)
	v := tbl.View()
	assert.Equal(t, 2, v.Page, "page clamps to the last page")
	assert.Equal(t, "0xb2", v.Rows[0]["address"])
	assert.Equal(t, "0xd4", v.Rows[1]["address"])

	tbl, err = Query{Filters: map[string]string{"name": "gam"}, PageSize: 10}.NewTable(snap, nil)
	require.NoError(t, err)
	v = tbl.View()
	require.Equal(t, 1, v.Total)
	assert.Equal(t, 10, v.PageSize)
	assert.Equal(t, "0xc3", v.Rows[0]["address"])
}

func TestQuery_Selection(t *testing.T) {
	snap := loadedOperators(t)

	tbl, err := Query{Select: []string{"0xb2", "0xd4"}}.NewTable(snap, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.View().SelectedCount)
	assert.Equal(t, []string{"0xb2", "0xd4"}, tbl.SelectedKeys())
}

func TestQuery_Errors(t *testing.T) {
	snap := loadedOperators(t)

	tests := []struct {
		name  string
		query Query
		want  error
	}{
		{"filter on unfilterable column", Query{Filters: map[string]string{"address": "x"}}, grid.ErrColumnNotFilterable},
		{"sort on unsortable column", Query{Sort: "name"}, grid.ErrColumnNotSortable},
		{"sort on unknown column", Query{Sort: "nope"}, grid.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.query.NewTable(snap, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Query{Page: -1}.NewTable(snap, nil)
	assert.Error(t, err)
}

func TestQuery_NotLoaded(t *testing.T) {
	cat, err := NewCatalog([]config.DatasetConfig{operatorsConfig("x.json")}, nil)
	require.NoError(t, err)
	snap, err := cat.Get("operators")
	require.NoError(t, err)

	tbl, err := Query{}.NewTable(snap, nil)
	require.NoError(t, err)
	assert.True(t, tbl.View().Loading)
}

func TestStateOf(t *testing.T) {
	snap := loadedOperators(t)
	want := Query{
		Search:  "a",
		Filters: map[string]string{"name": "a"},
		Sort:    "address",
		Desc:    true,
		Page:    2,
		Select:  []string{"0xa1"},
	}

	tbl, err := want.NewTable(snap, nil)
	require.NoError(t, err)
	got := StateOf(tbl)
	assert.Equal(t, want, got)

	again, err := got.NewTable(snap, nil)
	require.NoError(t, err)
	assert.Equal(t, tbl.View().Rows, again.View().Rows)
}
