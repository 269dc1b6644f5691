package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/tui"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	Dir string
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse <dataset>",
		Short: "Browse a dataset interactively",
		Long: `Open a full-screen table browser for a dataset.

Keys:
  ←/→ h/l     focus column        ↑/↓ k/j    move cursor
  s           sort focused column (asc, desc, off)
  /           search all columns  f          filter focused column
  space       toggle row          a          toggle all rows
  n/p         next/previous page  enter      show row details
  e           export CSV          r          reload
  esc         clear details       q          quit`,
		Example: `  dashgrid browse operators

  # Write exports into ./out
  dashgrid browse operators --dir out`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Directory to write CSV exports to")
	return cmd
}

func runBrowse(cmd *cobra.Command, name string, opts *BrowseOptions) error {
	cc := NewCommandContextWithoutCatalog(cmd)
	// Log lines would tear the full-screen view; load errors show in the
	// browser itself.
	cc.Logger = slog.New(slog.DiscardHandler)
	catalog, err := dataset.NewCatalog(cc.Cfg.Datasets, cc.Logger)
	if err != nil {
		return err
	}
	cc.Catalog = catalog
	if _, err := cc.Catalog.Get(name); err != nil {
		return unknownDataset(name, cc.Catalog.Names())
	}
	if !cc.Renderer.IsTTY() {
		return fmt.Errorf("browse needs an interactive terminal, use 'dashgrid table %s' instead", name)
	}
	ctx := cmd.Context()

	tracking, err := cc.StartTracking(ctx)
	if err != nil {
		return err
	}
	defer closeTracking(ctx, tracking, cc.Logger)

	return tui.Run(ctx, tui.Config{
		Dataset: name,
		Load: func(ctx context.Context) (dataset.Snapshot, error) {
			if err := cc.Catalog.Reload(ctx, name); err != nil {
				return dataset.Snapshot{}, err
			}
			return cc.Catalog.Get(name)
		},
		Events:    tracking.Tracker(name),
		ExportDir: opts.Dir,
		Styles:    cc.Renderer.Styles(),
		Now:       now,
	}, cmd.InOrStdin(), cmd.OutOrStdout())
}
