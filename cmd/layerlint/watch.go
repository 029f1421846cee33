package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/layerlint/config"
	"github.com/c360studio/layerlint/metrics"
	"github.com/c360studio/layerlint/scanner"
)

func watchCmd(configPath *string) *cobra.Command {
	var metricsListen string

	cmd := &cobra.Command{
		Use:   "watch <root>",
		Short: "Re-validate continuously as files change",
		Long: `Watch runs an initial validation of <root>, then watches the tree and
re-runs validation after each debounced batch of file changes. Results go
to the log; an optional Prometheus endpoint exposes run and violation
counters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, args[0])
			if err != nil {
				return err
			}
			if metricsListen != "" {
				cfg.Watch.MetricsListen = metricsListen
			}

			return runWatch(cmd, args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Address for the Prometheus /metrics endpoint (e.g. :9090)")

	return cmd
}

func runWatch(cmd *cobra.Command, root string, cfg *config.Config) error {
	ctx := cmd.Context()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absRoot)
	}

	m := metrics.New()
	if cfg.Watch.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		server := &http.Server{Addr: cfg.Watch.MetricsListen, Handler: mux}
		go func() {
			slog.Info("metrics endpoint listening", "addr", cfg.Watch.MetricsListen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer server.Close()
	}

	runOnce := func() {
		start := time.Now()
		rep, err := runValidation(ctx, absRoot, cfg)
		if err != nil {
			m.ObserveFailure()
			slog.Error("validation failed", "error", err)
			return
		}
		m.ObserveRun(time.Since(start), len(rep.Violations))

		if len(rep.Violations) == 0 {
			slog.Info("validation clean",
				"units", rep.UnitCount,
				"edges", len(rep.Edges),
				"duration", time.Since(start))
			return
		}
		for i := range rep.Violations {
			slog.Warn("violation", "detail", rep.Violations[i].String())
		}
	}

	exts, err := scanExtensions(cfg)
	if err != nil {
		return err
	}

	watcher, err := scanner.NewWatcher(scanner.WatcherConfig{
		Root:          absRoot,
		Extensions:    exts,
		DebounceDelay: cfg.Watch.Debounce,
		Logger:        slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	runOnce()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case batch, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			slog.Debug("changes detected", "files", len(batch))
			runOnce()
		}
	}
}
