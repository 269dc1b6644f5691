package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

func init() {
	Register("http", newHTTP)
}

// maxBody caps how much of a response is read.
const maxBody = 64 << 20

// HTTP fetches rows with a GET request. Responses are decoded like JSON
// files. Failed requests are not retried.
type HTTP struct {
	url       string
	headers   map[string]string
	dataField string
	client    *http.Client
	logger    *slog.Logger
}

func newHTTP(cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.URL == "" {
		return nil, errors.New("http source: url is required")
	}
	return &HTTP{
		url:       cfg.URL,
		headers:   cfg.Headers,
		dataField: cfg.DataField,
		client:    &http.Client{Timeout: cfg.timeout()},
		logger:    logger,
	}, nil
}

// Load implements Source.
func (s *HTTP) Load(ctx context.Context) ([]grid.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", s.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	rows, err := decodeRecords(body, s.dataField)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}

	s.logger.Debug("fetched dataset", slog.String("url", s.url), slog.Int("rows", len(rows)))
	return rows, nil
}
