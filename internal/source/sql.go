package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"  // postgres driver
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // sqlite driver (pure Go)

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func init() {
	Register("duckdb", sqlFactory("duckdb"))
	Register("sqlite", sqlFactory("sqlite"))
	Register("postgres", sqlFactory("pgx"))
}

// SQL runs a query and returns one row per result row keyed by column name.
// The database is opened for each load and closed afterwards.
type SQL struct {
	driver string
	dsn    string
	query  string
	cfg    Config
	logger *slog.Logger

	// open is replaced in tests.
	open func(driver, dsn string) (*sql.DB, error)
}

func sqlFactory(driver string) Factory {
	return func(cfg Config, logger *slog.Logger) (Source, error) {
		if cfg.Query == "" {
			return nil, fmt.Errorf("%s source: query is required", cfg.Type)
		}
		dsn := cfg.DSN
		if dsn == "" && driver == "duckdb" {
			dsn = ":memory:"
		}
		if dsn == "" {
			return nil, fmt.Errorf("%s source: dsn is required", cfg.Type)
		}
		return &SQL{
			driver: driver,
			dsn:    dsn,
			query:  cfg.Query,
			cfg:    cfg,
			logger: logger,
			open:   sql.Open,
		}, nil
	}
}

// Load implements Source.
func (s *SQL) Load(ctx context.Context) ([]grid.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()

	db, err := s.open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", s.cfg.Type, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("queried dataset", slog.String("type", s.cfg.Type), slog.Int("rows", len(out)))
	return out, nil
}

func scanRows(rows *sql.Rows) ([]grid.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, errors.New("query returned no columns")
	}

	out := make([]grid.Row, 0)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(grid.Row, len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}
