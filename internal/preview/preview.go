// Package preview serves the built site locally, rebuilding it when sources change
// and, optionally, on a fixed interval so remote documents are refreshed.
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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// DebounceWindow is the quiet period after the last file event before a rebuild starts.
const DebounceWindow = 300 * time.Millisecond

// Options configures a preview server.
type Options struct {
	// Addr overrides the listen address; defaults to ":<serve.port>".
	Addr string
	// Registry receives build metrics and backs /metrics when serve.metrics is on.
	Registry *prom.Registry
}

// buildStatus tracks the last build result for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess(id string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildID = id
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (id string, hasGoodBuild bool, err error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastBuildID, bs.hasGoodBuild, bs.lastError
}

// Server is a running preview.
type Server struct {
	builder *site.Builder
	status  *buildStatus
	http    *http.Server
	addr    string

	rebuildReq chan struct{}
	trigger    func()
}

// New prepares a preview server around builder.
func New(builder *site.Builder, opts Options) *Server {
	cfg := builder.Config()
	reg := opts.Registry
	if cfg.Serve.Metrics {
		if reg == nil {
			reg = prom.NewRegistry()
		}
		builder = builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	addr := opts.Addr
	if addr == "" {
		addr = ":" + strconv.Itoa(cfg.Serve.Port)
	}

	s := &Server{
		builder: builder,
		status:  &buildStatus{},
		addr:    addr,
	}
	s.rebuildReq, s.trigger = newDebouncer(DebounceWindow)
	s.http = &http.Server{
		Handler:           s.routes(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.builder.Config().Serve.Metrics {
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
	}
	mux.Handle("/", http.FileServer(http.Dir(s.builder.Config().OutputDir)))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	id, good, err := s.status.get()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch {
	case err != nil:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintf(w, "last build failed: %v\n", err)
	case !good:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintln(w, "no successful build yet")
	default:
		_, _ = fmt.Fprintf(w, "ok %s\n", id)
	}
}

// Run performs the initial build, serves the output and rebuilds on change until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening",
		slog.String("addr", ln.Addr().String()),
		logfields.Output(s.builder.Config().OutputDir))

	watcher, err := s.setupWatcher()
	if err != nil {
		s.shutdown()
		return err
	}
	defer func() { _ = watcher.Close() }()

	refresh, err := s.startRefresh()
	if err != nil {
		s.shutdown()
		return err
	}
	if refresh != nil {
		defer func() {
			if err := refresh.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	go s.rebuildWorker(ctx)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown() {
	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Rebuild failed", logfields.Error(err))
		s.status.setError(err)
		return
	}
	s.status.setSuccess(report.ID)
}

// rebuildWorker runs one build at a time; requests arriving during a build
// coalesce into a single follow-up build.
func (s *Server) rebuildWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.rebuildReq:
			slog.Info("Change detected; rebuilding site")
			s.rebuild(ctx)
		}
	}
}

// watchedDirs lists the source directories that trigger rebuilds.
func (s *Server) watchedDirs() []string {
	cfg := s.builder.Config()
	dirs := []string{cfg.ContentDir, cfg.TemplatesDir, cfg.AssetsDir, cfg.ScriptsDir, cfg.StylesDir}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if st, err := os.Stat(d); err != nil || !st.IsDir() {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *Server) setupWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, dir := range s.watchedDirs() {
		addDirsRecursive(watcher, dir)
	}
	return watcher, nil
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	s.trigger()
}

// newDebouncer returns a request channel and a trigger that sends to it once
// no further trigger happened for window.
func newDebouncer(window time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files (.#foo)
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913"
}
