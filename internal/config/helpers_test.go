package config

import "github.com/nodeset-analytics/dashgrid/internal/source"

func sourceConfig(typ string) source.Config {
	return source.Config{Type: typ, Path: "x." + typ}
}

func sourceConfigDSN(typ, dsn string) source.Config {
	return source.Config{Type: typ, DSN: dsn, Query: "select 1"}
}
