package source

import (
	"encoding/json"
	"fmt"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// decodeRecords parses a JSON document holding either an array of objects or
// an object whose dataField member is such an array. Numbers decode as
// float64.
func decodeRecords(data []byte, dataField string) ([]grid.Row, error) {
	if dataField != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		raw, ok := envelope[dataField]
		if !ok {
			return nil, fmt.Errorf("field %q not found", dataField)
		}
		data = raw
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]grid.Row, len(rows))
	for i, r := range rows {
		if r == nil {
			r = grid.Row{}
		}
		out[i] = r
	}
	return out, nil
}
