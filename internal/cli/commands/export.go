package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// now is replaced in tests.
var now = time.Now

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Query  TableQuery
	Dir    string
	Stdout bool
}

// ExportResult is the structured output of the export command.
type ExportResult struct {
	Dataset string `json:"dataset" yaml:"dataset"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Rows    int    `json:"rows" yaml:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Export a dataset as CSV",
		Long: `Export the filtered and sorted rows of a dataset, across all pages, as CSV.

The file is named <dataset>_<YYYY-MM-DD>.csv and written to --dir. Values are
exported raw, not through render expressions. When nothing matches, no file
is written.

With --select only the selected rows are exported, in their original order.`,
		Example: `  # Export everything
  dashgrid export operators

  # Export matching rows into ./out
  dashgrid export operators --filter client=teku --dir out

  # Pipe CSV elsewhere
  dashgrid export operators --stdout | head`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}

	opts.Query.AddFlags(cmd.Flags(), false)
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Directory to write the CSV file to")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Write CSV to stdout instead of a file")

	return cmd
}

func runExport(cmd *cobra.Command, name string, opts *ExportOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	r := cc.Renderer

	snap, err := cc.LoadDataset(ctx, name)
	if err != nil {
		return err
	}

	tracking, err := cc.StartTracking(ctx)
	if err != nil {
		return err
	}
	defer closeTracking(ctx, tracking, cc.Logger)

	events := tracking.Tracker(name)
	t, err := opts.Query.NewTable(snap, events)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var n int
	if len(opts.Query.Select) > 0 {
		if !t.Options().Exportable {
			return grid.ErrExportDisabled
		}
		n, err = grid.WriteCSV(&buf, t.Columns(), t.Selected())
		if n > 0 {
			events.Track("table.export", map[string]any{"rows": n, "selected": true})
		}
	} else {
		n, err = t.ExportCSV(&buf)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}

	if opts.Stdout || r.EffectiveMode() == output.ModeCSV {
		if n > 0 {
			buf.WriteByte('\n')
			_, err = buf.WriteTo(r.Writer())
		}
		return err
	}

	result := ExportResult{Dataset: name, Rows: n}
	if n > 0 {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		result.File = filepath.Join(opts.Dir, grid.ExportFilename(name, now()))
		if err := os.WriteFile(result.File, buf.Bytes(), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", result.File, err)
		}
	}

	if ok, err := r.Structured(result); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(2, "Export"))
		r.Println("")
		r.Println(output.FormatKeyValue("Dataset", name))
		if n == 0 {
			r.Println("Nothing to export")
			return nil
		}
		r.Println(output.FormatKeyValue("Rows", fmt.Sprint(n)))
		r.Println(output.FormatKeyValue("File", result.File))
	default:
		if n == 0 {
			r.Muted("Nothing to export")
			return nil
		}
		r.Success(fmt.Sprintf("Exported %d rows to %s", n, result.File))
	}
	return nil
}
