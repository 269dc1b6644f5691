package grid

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 1, 2, -1},
		{"equal ints", 5, 5, 0},
		{"int and float", 2, 1.5, 1},
		{"large int64 precision", int64(1 << 62), int64(1<<62 + 1), -1},
		{"json numbers", json.Number("10"), json.Number("9"), 1},
		{"int above float with same float64", int64(1<<53 + 1), float64(1 << 53), 1},
		{"float below int with same float64", float64(1 << 53), int64(1<<53 + 1), -1},
		{"int equals integral float", int64(1 << 53), float64(1 << 53), 0},
		{"int and fraction", 3, 3.5, -1},
		{"negative int and fraction", -3, -3.5, 1},
		{"negative int below uint", -1, uint64(0), -1},
		{"max uint64 above max int64", uint64(math.MaxUint64), int64(math.MaxInt64), 1},
		{"uint and float", uint64(1<<63 + 1), float64(1 << 63), 1},
		{"int below huge float", int64(math.MaxInt64), 1e30, -1},
		{"int above -Inf", int64(math.MinInt64), math.Inf(-1), 1},
		{"NaN before ints", math.NaN(), int64(math.MinInt64), -1},
		{"strings", "alice", "bob", -1},
		{"string case is significant", "B", "a", -1},
		{"bools", false, true, -1},
		{"times", late, early, 1},
		{"nil before values", nil, 0, -1},
		{"numbers before strings", 100, "1", -1},
		{"NaN before numbers", math.NaN(), math.Inf(-1), -1},
		{"NaN equals NaN", math.NaN(), math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
			// antisymmetry
			assert.Equal(t, sign(got), -sign(Compare(tt.b, tt.a)))
		})
	}
}

func TestCompare_MixedNumbersAreTransitive(t *testing.T) {
	values := []any{
		int64(1 << 53), int64(1<<53 + 1), int64(1<<53 - 1),
		float64(1 << 53), float64(1<<53 + 2), 4503599627370495.5,
		uint64(1<<53 + 1), json.Number("9007199254740993"), 0.5, -1,
	}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				ab, bc, ac := sign(Compare(a, b)), sign(Compare(b, c)), sign(Compare(a, c))
				if ab == 0 && bc == 0 {
					assert.Zero(t, ac, "%v == %v == %v", a, b, c)
				}
				if ab <= 0 && bc <= 0 && (ab < 0 || bc < 0) {
					assert.Negative(t, ac, "%v < %v < %v", a, b, c)
				}
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestNextSort(t *testing.T) {
	s := NextSort(SortState{}, "score")
	assert.Equal(t, SortState{Key: "score", Direction: Ascending}, s)

	s = NextSort(s, "score")
	assert.Equal(t, SortState{Key: "score", Direction: Descending}, s)

	assert.Equal(t, SortState{Key: "name", Direction: Ascending}, NextSort(s, "name"))
	assert.Equal(t, SortState{}, NextSort(s, "score"))
}

func TestSort(t *testing.T) {
	rows := []Row{
		{"name": "c", "v": 2},
		{"name": "a", "v": 1},
		{"name": "b", "v": 2},
		{"name": "d"},
	}

	t.Run("no sort keeps order", func(t *testing.T) {
		assert.Equal(t, []string{"c", "a", "b", "d"}, names(Sort(rows, SortState{})))
	})

	t.Run("ascending is stable", func(t *testing.T) {
		got := Sort(rows, SortState{Key: "v"})
		assert.Equal(t, []string{"d", "a", "c", "b"}, names(got))
	})

	t.Run("descending negates", func(t *testing.T) {
		got := Sort(rows, SortState{Key: "v", Direction: Descending})
		assert.Equal(t, []string{"c", "b", "a", "d"}, names(got))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		_ = Sort(rows, SortState{Key: "name"})
		assert.Equal(t, "c", rows[0]["name"])
	})
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
