package commands

import (
	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
)

// NewTableCommand creates the table command.
func NewTableCommand() *cobra.Command {
	q := &TableQuery{}

	cmd := &cobra.Command{
		Use:   "table <dataset>",
		Short: "Show one page of a dataset",
		Long: `Load a dataset and show one page of it after search, column filters and sort.

Search matches any column, filters match one column each; both are
case-insensitive substring matches. Cells are shown through the column's
render expression, while search, filters and sort use the raw values.

Output adapts to environment:
  - Terminal: Styled table with a page footer
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, csv, yaml`,
		Example: `  # First page of the operators dataset
  dashgrid table operators

  # Search, filter and sort
  dashgrid table operators --search lido --filter client=teku --sort validators --desc

  # Second page as JSON
  dashgrid table operators --page 2 -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, args[0], q)
		},
	}

	q.AddFlags(cmd.Flags(), true)
	return cmd
}

func runTable(cmd *cobra.Command, name string, q *TableQuery) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	snap, err := cc.LoadDataset(ctx, name)
	if err != nil {
		return err
	}

	tracking, err := cc.StartTracking(ctx)
	if err != nil {
		return err
	}
	defer closeTracking(ctx, tracking, cc.Logger)

	t, err := q.NewTable(snap, tracking.Tracker(name))
	if err != nil {
		return err
	}

	return cc.Renderer.View(t.View(), output.ViewOptions{
		Title:      snap.Config.DisplayTitle(),
		Selectable: t.Options().Selectable,
	})
}
