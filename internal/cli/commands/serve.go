package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the web dashboard",
		Long: `Start a local web server with an interactive table for every dataset.

The dashboard provides:
- Global search, per-column filters and sortable headers
- Row selection and CSV export of the filtered rows
- Live reload of file-backed datasets when the file changes
- A JSON API under /api/datasets

Interaction events are recorded in the analytics store when enabled.`,
		Example: `  # Start on the configured port
  dashgrid serve

  # Start on a custom port without opening a browser
  dashgrid serve --port 3000 --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload file datasets when they change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals so analytics are flushed on the way out
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cc.Logger.Debug("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := cfg.UI.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	// Failed datasets are shown with their error in the dashboard.
	_ = cc.Catalog.Load(ctx)

	var sink analytics.Sink = analytics.LogSink{Logger: cc.Logger}
	var store *analytics.Store
	if cfg.Analytics.Enabled {
		store, err = analytics.Open(cfg.StatePath, cc.Logger)
		if err != nil {
			return err
		}
		sink = store
	}
	defer func() {
		if err := sink.Stop(context.WithoutCancel(ctx)); err != nil {
			cc.Logger.Warn("failed to flush analytics", "error", err)
		}
	}()

	server := ui.NewServer(ui.Config{
		Catalog:       cc.Catalog,
		Sink:          sink,
		Store:         store,
		Port:          port,
		Watch:         watch,
		SessionSecret: sessionSecret(cfg.UI.SessionSecret),
		FlushInterval: cfg.Analytics.FlushInterval,
		Logger:        cc.Logger,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	r := cc.Renderer
	r.Success(fmt.Sprintf("Serving %d datasets on http://localhost:%d", len(cc.Catalog.Names()), port))
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// sessionSecret prefers the configured secret, then DASHGRID_SESSION_SECRET.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	secret := os.Getenv("DASHGRID_SESSION_SECRET")
	if secret == "" {
		// Only signs the analytics session cookie of a local dashboard.
		secret = "dashgrid-dev-secret-change-in-production" //nolint:gosec
	}
	return secret
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
