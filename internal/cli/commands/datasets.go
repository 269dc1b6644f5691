package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
)

// DatasetInfo describes one configured dataset.
type DatasetInfo struct {
	Name     string     `json:"name" yaml:"name"`
	Title    string     `json:"title" yaml:"title"`
	Source   string     `json:"source" yaml:"source"`
	Columns  []string   `json:"columns" yaml:"columns"`
	Key      string     `json:"key,omitempty" yaml:"key,omitempty"`
	PageSize int        `json:"page_size" yaml:"page_size"`
	Rows     *int       `json:"rows,omitempty" yaml:"rows,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty" yaml:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand() *cobra.Command {
	var withRows bool

	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ls"},
		Short:   "List configured datasets",
		Long: `List the datasets declared in dashgrid.yaml with their source and columns.

With --rows every dataset is loaded and its row count reported. A dataset
that fails to load is listed with its error instead of failing the command.`,
		Example: `  # List datasets
  dashgrid datasets

  # Load all datasets and show row counts as JSON
  dashgrid datasets --rows -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDatasets(cmd, withRows)
		},
	}

	cmd.Flags().BoolVar(&withRows, "rows", false, "Load every dataset and show row counts")
	return cmd
}

func runDatasets(cmd *cobra.Command, withRows bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	if withRows {
		var spinner *output.Spinner
		if r.EffectiveMode() == output.ModeText {
			spinner = r.NewSpinner("Loading datasets...")
			spinner.Start()
		}
		// Per-dataset failures are recorded on the snapshots.
		_ = cc.Catalog.Load(cmd.Context())
		if spinner != nil {
			spinner.Stop()
		}
	}

	infos := make([]DatasetInfo, 0, len(cc.Catalog.Names()))
	for _, snap := range cc.Catalog.List() {
		infos = append(infos, datasetInfo(snap, withRows))
	}

	if ok, err := r.Structured(infos); ok {
		return err
	}

	if len(infos) == 0 {
		msg := "No datasets configured"
		if f := cc.Cfg.ProjectRoot; f != "" {
			msg += " in " + f
		}
		if r.EffectiveMode() == output.ModeText {
			r.Muted(msg)
		} else {
			r.Println(msg)
		}
		return nil
	}

	header := []string{"Name", "Title", "Source", "Columns", "Page size"}
	if withRows {
		header = append(header, "Rows")
	}
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, info.Title, info.Source, strconv.Itoa(len(info.Columns)), strconv.Itoa(info.PageSize)}
		if withRows {
			count := "-"
			switch {
			case info.Error != "":
				count = "error: " + info.Error
			case info.Rows != nil:
				count = strconv.Itoa(*info.Rows)
			}
			rows[i] = append(rows[i], count)
		}
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Datasets"))
		r.Println("")
	}
	return r.Table(header, rows)
}

func datasetInfo(snap dataset.Snapshot, withRows bool) DatasetInfo {
	cfg := snap.Config
	info := DatasetInfo{
		Name:     cfg.Name,
		Title:    cfg.DisplayTitle(),
		Source:   cfg.Source.Describe(),
		Key:      cfg.Key,
		PageSize: cfg.PageSize,
		Columns:  make([]string, len(snap.Columns)),
	}
	for i, c := range snap.Columns {
		info.Columns[i] = c.Key
	}
	if !withRows {
		return info
	}
	if snap.Err != nil {
		info.Error = snap.Err.Error()
	}
	if snap.Loaded {
		n := len(snap.Rows)
		at := snap.LoadedAt
		info.Rows, info.LoadedAt = &n, &at
	}
	return info
}
