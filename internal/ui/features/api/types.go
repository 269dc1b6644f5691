package api

import (
	"time"

	"github.com/nodeset-analytics/dashgrid/internal/stats"
)

// DatasetInfo describes one dataset in the listing.
type DatasetInfo struct {
	Name     string     `json:"name"`
	Title    string     `json:"title"`
	Source   string     `json:"source"`
	Key      string     `json:"key,omitempty"`
	Columns  []string   `json:"columns"`
	Rows     int        `json:"rows"`
	Loaded   bool       `json:"loaded"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// StatsResponse is the body of the stats endpoint.
type StatsResponse struct {
	Dataset string `json:"dataset"`
	stats.Summary
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
