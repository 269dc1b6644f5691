package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/cli/config"
	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	sharedcfg "github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Catalog  *dataset.Catalog
}

// NewCommandContext creates a CommandContext with a catalog of the
// configured datasets. Nothing is loaded yet.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutCatalog(cmd)
	catalog, err := dataset.NewCatalog(cc.Cfg.Datasets, cc.Logger)
	if err != nil {
		return nil, err
	}
	cc.Catalog = catalog
	return cc, nil
}

// NewCommandContextWithoutCatalog creates a CommandContext without a
// catalog. Useful for commands that only read the analytics store.
func NewCommandContextWithoutCatalog(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// LoadDataset loads one dataset, showing a spinner in text mode.
func (cc *CommandContext) LoadDataset(ctx context.Context, name string) (dataset.Snapshot, error) {
	if _, err := cc.Catalog.Get(name); err != nil {
		return dataset.Snapshot{}, unknownDataset(name, cc.Catalog.Names())
	}

	var spinner *output.Spinner
	if cc.Renderer.EffectiveMode() == output.ModeText {
		spinner = cc.Renderer.NewSpinner(fmt.Sprintf("Loading %s...", name))
		spinner.Start()
	}

	if err := cc.Catalog.Reload(ctx, name); err != nil {
		if spinner != nil {
			spinner.Fail(fmt.Sprintf("Failed to load %s", name))
		}
		return dataset.Snapshot{}, err
	}

	snap, err := cc.Catalog.Get(name)
	if err != nil {
		return dataset.Snapshot{}, err
	}
	if spinner != nil {
		spinner.Stop()
	}
	return snap, nil
}

// Tracking is an analytics session for one CLI invocation.
type Tracking struct {
	Sink    analytics.Sink
	Session string
}

// Tracker binds the session to dataset.
func (t *Tracking) Tracker(dataset string) grid.EventSink {
	return analytics.NewTracker(t.Sink, t.Session, dataset)
}

// Close flushes and stops the sink.
func (t *Tracking) Close(ctx context.Context) error {
	return t.Sink.Stop(ctx)
}

// StartTracking opens the analytics store when analytics are enabled and
// starts a session. When disabled, events go to the debug log.
func (cc *CommandContext) StartTracking(ctx context.Context) (*Tracking, error) {
	var sink analytics.Sink = analytics.LogSink{Logger: cc.Logger}
	if cc.Cfg.Analytics.Enabled {
		store, err := analytics.Open(cc.Cfg.StatePath, cc.Logger)
		if err != nil {
			return nil, err
		}
		sink = store
	}

	session, err := sink.StartSession(ctx)
	if err != nil {
		_ = sink.Stop(ctx)
		return nil, err
	}
	return &Tracking{Sink: sink, Session: session}, nil
}

// closeTracking stops tracking and logs instead of failing the command.
func closeTracking(ctx context.Context, t *Tracking, logger *slog.Logger) {
	if err := t.Close(ctx); err != nil {
		logger.Warn("failed to flush analytics", slog.String("error", err.Error()))
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := &config.Config{
		OutputFormat: getEnvOrDefault("DASHGRID_OUTPUT", config.DefaultOutput),
		LogLevel:     getEnvOrDefault("DASHGRID_LOG_LEVEL", config.DefaultLogLevel),
		Verbose:      os.Getenv("DASHGRID_VERBOSE") == "true",
	}
	cwd, _ := os.Getwd()
	sharedcfg.Resolve(&cfg.Project, cwd)
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func unknownDataset(name string, available []string) error {
	if len(available) == 0 {
		return fmt.Errorf("%w: %s (no datasets configured, see dashgrid.yaml)", dataset.ErrNotFound, name)
	}
	return fmt.Errorf("%w: %s (available: %s)", dataset.ErrNotFound, name, strings.Join(available, ", "))
}

// completeDatasets offers configured dataset names as the first argument.
func completeDatasets(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return getConfig().DatasetNames(), cobra.ShellCompDirectiveNoFileComp
}
