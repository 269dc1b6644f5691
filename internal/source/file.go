package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func init() {
	Register("json", newJSON)
	Register("csv", newCSV)
}

// JSONFile reads rows from a JSON file.
type JSONFile struct {
	path      string
	dataField string
	logger    *slog.Logger
}

func newJSON(cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.Path == "" {
		return nil, errors.New("json source: path is required")
	}
	return &JSONFile{path: cfg.Path, dataField: cfg.DataField, logger: logger}, nil
}

// Load implements Source.
func (s *JSONFile) Load(ctx context.Context) ([]grid.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	rows, err := decodeRecords(data, s.dataField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("loaded json file", slog.String("path", s.path), slog.Int("rows", len(rows)))
	return rows, nil
}

// CSVFile reads rows from a CSV file whose first line names the columns.
type CSVFile struct {
	path   string
	logger *slog.Logger
}

func newCSV(cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.Path == "" {
		return nil, errors.New("csv source: path is required")
	}
	return &CSVFile{path: cfg.Path, logger: logger}, nil
}

// Load implements Source.
func (s *CSVFile) Load(ctx context.Context) ([]grid.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("loaded csv file", slog.String("path", s.path), slog.Int("rows", len(rows)))
	return rows, nil
}

// ReadCSV parses CSV with a header row. Cells that look numeric become
// float64; everything else stays a string. Short records leave the missing
// keys unset.
func ReadCSV(r io.Reader) ([]grid.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []grid.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]grid.Row, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make(grid.Row, len(header))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = parseCell(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCell(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	switch c := t[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+', c == '.':
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return s
}
