// Package ui provides the web dashboard for dashgrid datasets.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
	"github.com/nodeset-analytics/dashgrid/internal/ui/router"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	catalog       *dataset.Catalog
	sink          analytics.Sink
	store         *analytics.Store
	sessionStore  *sessions.CookieStore
	port          int
	watch         bool
	flushInterval time.Duration
	logger        *slog.Logger
	notifier      *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Catalog *dataset.Catalog
	// Sink receives table interaction events. Nil discards them.
	Sink analytics.Sink
	// Store, when set, is flushed every FlushInterval while serving.
	Store         *analytics.Store
	Port          int
	Watch         bool
	SessionSecret string
	FlushInterval time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	if cfg.Sink == nil {
		cfg.Sink = analytics.NopSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}

	return &Server{
		catalog:       cfg.Catalog,
		sink:          cfg.Sink,
		store:         cfg.Store,
		sessionStore:  sessionStore,
		port:          cfg.Port,
		watch:         cfg.Watch,
		flushInterval: cfg.FlushInterval,
		logger:        cfg.Logger,
		notifier:      notifier.New(),
	}
}

// Handler builds the router with middleware and every feature route.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.catalog, s.sink, s.sessionStore, s.notifier, s.IsDev()); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	if s.store != nil {
		eg.Go(func() error {
			return s.store.Run(egctx, s.flushInterval)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether the dev-only hot reload endpoints are served.
func (s *Server) IsDev() bool {
	return isDev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles reloads file-backed datasets when their file changes and
// tells the dataset's pages about it. Directories are watched rather than
// files, since editors often save by replacing the file.
func (s *Server) watchFiles(ctx context.Context) error {
	files := s.catalog.WatchedFiles()
	if len(files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	byPath := make(map[string]string, len(files))
	dirs := make(map[string]struct{})
	for path, name := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		byPath[filepath.Clean(abs)] = name
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			// Don't fail - the dataset just won't live reload
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := byPath[filepath.Clean(event.Name)]
			if !ok {
				continue
			}

			mu.Lock()
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(reloadDebounce, func() {
				s.reload(ctx, name)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reload refreshes one dataset and notifies its listeners. A failed load
// keeps the previous rows, and listeners are still told so the error shows.
func (s *Server) reload(ctx context.Context, name string) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("dataset file changed, reloading", "dataset", name)
	if err := s.catalog.Reload(ctx, name); err != nil {
		s.logger.Error("reload failed", "dataset", name, "error", err)
	}
	s.notifier.Broadcast(name)
}
