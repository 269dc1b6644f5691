package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// OperatorsJSON is a small operator performance dataset in the envelope
// shape served by the analytics API.
const OperatorsJSON = `{"data":[
  {"address":"0xa1","name":"Alpha Staking","validators":12,"performance":99.12,"client":"teku"},
  {"address":"0xb2","name":"Beta Nodes","validators":40,"performance":97.5,"client":"lighthouse"},
  {"address":"0xc3","name":"Gamma","validators":7.5,"performance":98.01,"client":"prysm"},
  {"address":"0xd4","name":"Delta Validators","validators":120,"performance":95.4,"client":null}
]}`

// OperatorsCSV holds the same operators as CSV.
const OperatorsCSV = `address,name,validators,performance,client
0xa1,Alpha Staking,12,99.12,teku
0xb2,Beta Nodes,40,97.5,lighthouse
0xc3,Gamma,7.5,98.01,prysm
0xd4,Delta Validators,120,95.4,
`

// WriteFile writes content to name inside dir, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// SetupProject creates a temporary project with a dashgrid.yaml describing
// an "operators" JSON dataset and returns its directory.
func SetupProject(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "data/operators.json", OperatorsJSON)
	WriteFile(t, dir, "dashgrid.yaml", ProjectConfig)
	return dir
}

// ProjectConfig is the dashgrid.yaml written by SetupProject.
const ProjectConfig = `state_path: .dashgrid/state.db
log_level: warn
analytics:
  enabled: true
datasets:
  - name: operators
    title: Operator performance
    key: address
    page_size: 2
    density: compact
    selectable: true
    searchable: true
    exportable: true
    source:
      type: json
      path: data/operators.json
      data_field: data
    columns:
      - {key: address, label: Operator, sortable: true, filterable: true, render: "short(value, 4)"}
      - {key: name, label: Name, sortable: true, filterable: true}
      - {key: validators, label: Validators, sortable: true}
      - {key: performance, label: Performance, sortable: true, render: "pct(value)"}
      - {key: client, label: Client, filterable: true}
`
