// Package preview serves the generated site locally and rebuilds the
// homepage whenever the README, the template or the docs tree changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

const debounceDelay = 300 * time.Millisecond

// Options tunes the preview server beyond the config defaults.
type Options struct {
	Port     int
	Metrics  bool          // expose /metrics with Prometheus build metrics
	Interval time.Duration // optional periodic full rebuild, 0 disables
}

// buildStatus tracks the current build state for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}

// Run builds the site once, serves the content directory over HTTP and keeps
// rebuilding on input changes until ctx is canceled.
func Run(ctx context.Context, gen *site.Generator, opts Options) error {
	cfg := gen.Config()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if opts.Metrics {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		gen.SetRecorder(recorder)
	}

	status := &buildStatus{}
	rebuild := func(forced bool) {
		_, err := gen.Build(ctx)
		recorder.IncPreviewRebuild(err == nil)
		if err != nil {
			if !forced {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
			status.setError(err)
			return
		}
		status.setSuccess()
	}

	// Initial build. A failure here is reported through /healthz but does not
	// prevent the server from starting, the next change can fix it.
	rebuild(true)
	if hasError, err, _ := status.getStatus(); hasError {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	srv, err := startHTTPServer(cfg.ContentDirPath(), opts, status, registry)
	if err != nil {
		return err
	}

	watcher, err := setupWatcher(cfg.ReadmePath(), cfg.TemplatePath(), cfg.DocsSourcePath())
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := newDebouncer()
	startRebuildWorker(ctx, rebuildReq, func() { rebuild(false) })

	var scheduler gocron.Scheduler
	if opts.Interval > 0 {
		scheduler, err = startIntervalJob(opts.Interval, trigger)
		if err != nil {
			_ = srv.Close()
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	slog.Info("Preview server listening",
		logfields.Port(opts.Port),
		logfields.URL(fmt.Sprintf("http://localhost:%d", opts.Port)))

	return runEventLoop(ctx, watcher, trigger, srv, cfg.ContentDirPath())
}

func startHTTPServer(contentDir string, opts Options, status *buildStatus, registry *prom.Registry) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(contentDir)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		hasError, err, hasGoodBuild := status.getStatus()
		switch {
		case hasError && !hasGoodBuild:
			http.Error(w, fmt.Sprintf("build failed: %v", err), http.StatusServiceUnavailable)
		case hasError:
			// Serving the last good build, flag the failed rebuild.
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "stale: last rebuild failed: %v\n", err)
		default:
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		}
	})
	if registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, sgerrors.WrapError(err, sgerrors.CategoryPreview, "failed to bind preview port").
			WithContext("port", opts.Port)
	}

	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("Preview server stopped", logfields.Error(serveErr))
		}
	}()
	return srv, nil
}

// setupWatcher watches the docs tree recursively plus the directories holding
// the README and the template. Watching directories rather than files keeps
// editors that replace files on save (rename+create) covered.
func setupWatcher(readmePath, templatePath, docsDir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, sgerrors.WrapError(err, sgerrors.CategoryPreview, "failed to create file watcher")
	}

	if err := addDirsRecursive(watcher, docsDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	for _, dir := range []string{filepath.Dir(readmePath), filepath.Dir(templatePath)} {
		if err := watcher.Add(dir); err != nil {
			slog.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := w.Add(path); addErr != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(addErr))
			}
		}
		return nil
	})
}

// newDebouncer returns the rebuild request channel and a trigger that
// collapses bursts of events into a single request after debounceDelay.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker drains rebuild requests with single-flight semantics.
// Requests arriving mid-build coalesce into one follow-up run.
func startRebuildWorker(ctx context.Context, rebuildReq chan struct{}, rebuild func()) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding homepage")
				rebuild()

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

func startIntervalJob(interval time.Duration, trigger func()) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, sgerrors.WrapError(err, sgerrors.CategoryPreview, "failed to create scheduler")
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Periodic rebuild triggered")
			trigger()
		}),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, sgerrors.WrapError(err, sgerrors.CategoryPreview, "failed to schedule periodic rebuild")
	}
	s.Start()
	return s, nil
}

func runEventLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), srv *http.Server, contentDir string) error {
	for {
		select {
		case <-ctx.Done():
			return shutdown(srv)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger, contentDir)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// shutdown stops the HTTP server. The rebuild request channel is deliberately
// left open: a pending debounce timer may still fire after this point, and
// the buffered send must stay safe. The worker exits on ctx.Done.
func shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(), contentDir string) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// The build writes into the content tree; reacting to those events would
	// rebuild forever.
	if isWithin(ev.Name, contentDir) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func isWithin(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return absPath == absDir || strings.HasPrefix(absPath, absDir+string(filepath.Separator))
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}

	return false
}
