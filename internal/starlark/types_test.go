package starlark

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{
			name:    "string",
			input:   "hello",
			wantStr: `"hello"`,
		},
		{
			name:    "bytes",
			input:   []byte("raw"),
			wantStr: `"raw"`,
		},
		{
			name:    "int",
			input:   42,
			wantStr: "42",
		},
		{
			name:    "int64",
			input:   int64(123456789),
			wantStr: "123456789",
		},
		{
			name:    "float64",
			input:   3.14,
			wantStr: "3.14",
		},
		{
			name:    "json integer",
			input:   json.Number("32"),
			wantStr: "32",
		},
		{
			name:    "json float",
			input:   json.Number("2.50"),
			wantStr: "2.5",
		},
		{
			name:    "bool true",
			input:   true,
			wantStr: "True",
		},
		{
			name:    "nil",
			input:   nil,
			wantStr: "None",
		},
		{
			name:    "time",
			input:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			wantStr: `"2024-01-02T03:04:05Z"`,
		},
		{
			name:    "any slice",
			input:   []any{"x", 1, true},
			wantStr: `["x", 1, True]`,
		},
		{
			name:    "map",
			input:   map[string]any{"key": "value"},
			wantStr: `{"key": "value"}`,
		},
		{
			name:    "unsupported",
			input:   struct{}{},
			wantErr: true,
		},
		{
			name:    "unsupported nested",
			input:   map[string]any{"k": []int{1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}
			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.wantStr, got.String(), "GoToStarlark()")
		})
	}
}

func TestDisplayString(t *testing.T) {
	assert.Equal(t, "plain", displayString(starlark.String("plain")))
	assert.Equal(t, "", displayString(starlark.None))
	assert.Equal(t, "7", displayString(starlark.MakeInt(7)))
	assert.Equal(t, "True", displayString(starlark.True))
}
