package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/hostcache"
	"github.com/sorexsearch/sorex/internal/hostwatch"
	"github.com/sorexsearch/sorex/pkg/sorex"
)

func newServeCmd() *cobra.Command {
	var addr string
	var limit int
	var cacheSize int
	var watch bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "serve <index.sorex>",
		Short: "Serve a .sorex index over a tiny HTTP JSON search API",
		Long: `Starts a local HTTP server exposing GET /search?q=<query>&limit=<n>.
With --watch (the default), the index is reloaded automatically whenever
the file is replaced on disk, without ever serving a half-written buffer
to an in-flight request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0], addr, limit, cacheSize, watch, debounce)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().IntVar(&limit, "default-limit", 10, "Default result limit when ?limit= is absent")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 256, "Max distinct (query,limit) pairs to cache")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the index when the file changes on disk")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Debounce window for reload-triggering file events")
	return cmd
}

func runServe(cmd *cobra.Command, path, addr string, defaultLimit, cacheSize int, watch bool, debounce time.Duration) error {
	reloader, err := hostwatch.NewReloader(path)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	cache, err := hostcache.New(cacheSize)
	if err != nil {
		return err
	}

	var watcher *hostwatch.Watcher
	if watch {
		watcher, err = hostwatch.NewWatcher(reloader, debounce, slog.Default(), func(_ hostwatch.Snapshot, err error) {
			if err == nil {
				cache.Reset()
			}
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, reloader, cache, defaultLimit)
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	slog.Info("sorex serve listening", slog.String("addr", addr), slog.String("index", path))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type searchResponse struct {
	Results []searchResultJSON `json:"results"`
}

func handleSearch(w http.ResponseWriter, r *http.Request, reloader *hostwatch.Reloader, cache *hostcache.Cache, defaultLimit int) {
	query := r.URL.Query().Get("q")
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}

	snap := reloader.Current()
	results := cache.Search(snap.Searcher, query, limit)

	docs := make(map[uint32]sorex.Document)
	for _, d := range snap.Searcher.Docs() {
		docs[d.DocID] = d
	}
	sectionIDs := snap.Layer.SectionIDs()

	resp := searchResponse{Results: make([]searchResultJSON, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, toJSONResult(res, docs[res.DocID], sectionIDs))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
