// Package common provides shared helpers for dashboard features.
package common

import (
	"net/url"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common/components"
)

// DatasetPath returns the page URL of a dataset.
func DatasetPath(name string) string {
	return "/datasets/" + url.PathEscape(name)
}

// ViewPath returns the datastar endpoint that applies table actions.
func ViewPath(name string) string {
	return DatasetPath(name) + "/view"
}

// UpdatesPath returns the SSE endpoint that announces reloads of a dataset.
func UpdatesPath(name string) string {
	return DatasetPath(name) + "/updates"
}

// ExportPath returns the CSV download URL for q.
func ExportPath(name string, q dataset.Query) string {
	p := "/api/datasets/" + url.PathEscape(name) + "/export.csv"
	if v := EncodeQuery(q); len(v) > 0 {
		p += "?" + v.Encode()
	}
	return p
}

// BuildNav lists every dataset, marking the one at currentPath.
func BuildNav(catalog *dataset.Catalog, currentPath string) []components.NavItem {
	snaps := catalog.List()
	nav := make([]components.NavItem, 0, len(snaps))
	for _, s := range snaps {
		p := DatasetPath(s.Config.Name)
		nav = append(nav, components.NavItem{
			Title:  s.Config.DisplayTitle(),
			Path:   p,
			Active: p == currentPath,
		})
	}
	return nav
}
