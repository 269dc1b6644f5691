package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validatorRows() []Row {
	return []Row{
		{"address": "0xa", "name": "alpha", "perf": 99.1},
		{"address": "0xb", "name": "beta", "perf": 97.3},
		{"address": "0xc", "name": "gamma", "perf": 98.8},
	}
}

func validatorColumns() []Column {
	return []Column{
		{Key: "address", Label: "Address"},
		{Key: "name", Label: "Name", Sortable: true, Filterable: true},
		{Key: "perf", Label: "Performance", Sortable: true},
	}
}

func TestSelection_ToggleTwiceRestores(t *testing.T) {
	for _, key := range []string{"", "address"} {
		t.Run("key="+key, func(t *testing.T) {
			var calls [][]Row
			tbl := NewTable(validatorRows(), validatorColumns(), Options{
				Selectable:        true,
				KeyColumn:         key,
				OnSelectionChange: func(rows []Row) { calls = append(calls, rows) },
			})

			require.NoError(t, tbl.ToggleRow(1))
			assert.Equal(t, []string{"beta"}, names(tbl.Selected()))

			require.NoError(t, tbl.ToggleRow(1))
			assert.Empty(t, tbl.Selected())

			require.Len(t, calls, 2)
			assert.Equal(t, []string{"beta"}, names(calls[0]))
			assert.NotNil(t, calls[1])
			assert.Empty(t, calls[1])
		})
	}
}

func TestSelection_SelectAllThenClear(t *testing.T) {
	var last []Row
	calls := 0
	tbl := NewTable(validatorRows(), validatorColumns(), Options{
		Selectable: true,
		OnSelectionChange: func(rows []Row) {
			calls++
			last = rows
		},
	})

	require.NoError(t, tbl.SelectAll(true))
	assert.Len(t, last, 3)
	assert.True(t, tbl.View().AllSelected)

	require.NoError(t, tbl.SelectAll(false))
	assert.Equal(t, 2, calls)
	assert.NotNil(t, last)
	assert.Empty(t, last)
}

func TestSelection_SelectAllUsesFilteredView(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{Selectable: true, Searchable: true})
	require.NoError(t, tbl.SetSearch("a"))         // alpha, beta, gamma all contain "a"
	require.NoError(t, tbl.SetFilter("name", "m")) // gamma only

	require.NoError(t, tbl.ToggleAll())
	assert.Equal(t, []string{"gamma"}, names(tbl.Selected()))

	require.NoError(t, tbl.ToggleAll())
	assert.Empty(t, tbl.Selected())
}

func TestSelection_PositionalQuirk(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{Selectable: true})

	require.NoError(t, tbl.ToggleRow(0))
	assert.Equal(t, []string{"alpha"}, names(tbl.Selected()))

	// Sorting moves a different row into index 0; the positional selection
	// follows the index, not the row.
	require.NoError(t, tbl.SetSort(SortState{Key: "perf"}))
	assert.Equal(t, []string{"beta"}, names(tbl.Selected()))
}

func TestSelection_IdentitySurvivesSortAndFilter(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{
		Selectable: true,
		KeyColumn:  "address",
	})

	require.NoError(t, tbl.ToggleRow(0))
	require.NoError(t, tbl.SetSort(SortState{Key: "perf"}))
	require.NoError(t, tbl.SetFilter("name", "beta"))

	assert.Equal(t, []string{"alpha"}, names(tbl.Selected()))
	assert.Equal(t, []string{"0xa"}, tbl.SelectedKeys())
	assert.False(t, tbl.View().Selected[0], "beta is visible but not selected")
}

func TestSelection_IdentityMaterializesInOriginalOrder(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{
		Selectable: true,
		KeyColumn:  "address",
	})
	require.NoError(t, tbl.SetSort(SortState{Key: "perf", Direction: Descending}))
	// derived order: alpha, gamma, beta
	require.NoError(t, tbl.ToggleRow(2))
	require.NoError(t, tbl.ToggleRow(0))

	assert.Equal(t, []string{"alpha", "beta"}, names(tbl.Selected()))
}

func TestSelection_OutOfRange(t *testing.T) {
	calls := 0
	tbl := NewTable(validatorRows(), validatorColumns(), Options{
		Selectable:        true,
		OnSelectionChange: func([]Row) { calls++ },
	})

	assert.ErrorIs(t, tbl.ToggleRow(3), ErrRowOutOfRange)
	assert.ErrorIs(t, tbl.ToggleRow(-1), ErrRowOutOfRange)
	assert.Zero(t, calls)
}

func TestSelection_PageRows(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{Selectable: true, PageSize: 2})
	tbl.SetPage(2)

	require.NoError(t, tbl.TogglePageRow(0))
	assert.Equal(t, []string{"gamma"}, names(tbl.Selected()))
	assert.Equal(t, []bool{true}, tbl.View().Selected)
}

func TestSelection_SelectKeys(t *testing.T) {
	tbl := NewTable(validatorRows(), validatorColumns(), Options{Selectable: true})
	assert.ErrorIs(t, tbl.SelectKeys([]string{"0xa"}), ErrUnknownColumn)

	tbl = NewTable(validatorRows(), validatorColumns(), Options{Selectable: true, KeyColumn: "address"})
	require.NoError(t, tbl.SelectKeys([]string{"0xc", "0xa"}))
	assert.Equal(t, []string{"alpha", "gamma"}, names(tbl.Selected()))
}
