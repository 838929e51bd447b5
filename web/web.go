// Package web provides the HTTP server behind the dashboard.
//
// The server exposes a read-only JSON API over the tracker database,
// with metrics computed on demand from an in-memory snapshot. The
// snapshot is invalidated when the database file changes on disk, so
// edits made through the CLI show up without restarting.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"kopilka/config"
	"kopilka/rates"
	"kopilka/store"
	"kopilka/telemetry"
)

type Server struct {
	Port      int
	Host      string
	Version   string
	CommitSHA string

	cfg   *config.Config
	store *store.Store
	cache *rates.Cache
	log   *slog.Logger

	// refresher keeps the rate cache warm for as long as the server
	// runs; nil disables background refresh.
	refresher *rates.Refresher

	mu       sync.RWMutex
	snapshot *store.Snapshot

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(cfg *config.Config, st *store.Store, cache *rates.Cache, refresher *rates.Refresher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		Port:       cfg.WebPort,
		Host:       "127.0.0.1",
		cfg:        cfg,
		store:      st,
		cache:      cache,
		refresher:  refresher,
		log:        log,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the initial snapshot and runs the HTTP server, the file
// watcher and the rate refresher until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if _, err := s.currentSnapshot(ctx); err != nil {
		return fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.watchDatabase(groupCtx)
	})

	if s.refresher != nil {
		group.Go(func() error {
			return s.refresher.Run(groupCtx)
		})
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler: s.Handler(),
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	return group.Wait()
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/accounts", s.handleAccounts)
	mux.HandleFunc("GET /api/upcoming", s.handleUpcoming)
	mux.HandleFunc("GET /api/rates", s.handleRates)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// currentSnapshot returns the cached snapshot, loading it from the
// database on first use or after an invalidation.
func (s *Server) currentSnapshot(ctx context.Context) (*store.Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	return snap, nil
}

func (s *Server) invalidateSnapshot() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// watchDatabase watches the directory holding the database file and
// invalidates the snapshot when it changes. SQLite writes through
// journal files next to the database, so the whole directory is
// watched and events are filtered by name prefix.
func (s *Server) watchDatabase(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dbPath, err := filepath.Abs(s.store.Path())
	if err != nil {
		_ = watcher.Close()
		return err
	}
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(dbPath), err)
	}

	s.runWatcher(ctx, watcher, filepath.Base(dbPath))
	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, dbName string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Debounce timer, SQLite commits touch the file several times.
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasPrefix(filepath.Base(event.Name), dbName) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.invalidateSnapshot()
				s.broadcast("reload")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("file watcher error", "error", err)
		}
	}
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
		close(clientChan)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
