package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderform/internal/server"
	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/submit"
	"github.com/goliatone/go-orderform/pkg/view"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the order form HTTP server",
	Long: `Start the HTTP server rendering the landing and order pages. Order
state lives in memory per page visit and expires after session.ttl of
inactivity. Prometheus metrics are exposed on /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(gatherer)

	client, err := submit.NewHTTPClient(cfg.Order.Endpoint, submit.WithTimeout(cfg.Order.Timeout))
	if err != nil {
		return err
	}

	registry, err := themeRegistry(cfg.Theme.Manifest)
	if err != nil {
		return err
	}
	views, err := view.New(
		view.WithThemeSelector(theme.Selector{Registry: registry}),
		view.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
		view.WithTokens(cfg.Theme.Tokens),
	)
	if err != nil {
		return err
	}

	srv, err := server.New(client,
		server.WithLogger(logger),
		server.WithViews(views),
		server.WithRecorder(recorder),
		server.WithGatherer(gatherer),
		server.WithSessionTTL(cfg.Session.TTL),
		server.WithSecureCookies(cfg.Server.SecureCookies),
	)
	if err != nil {
		return err
	}
	defer srv.Store().Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Store().Run(ctx, cfg.Session.SweepInterval)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting order form server",
			"addr", cfg.Server.Addr,
			"endpoint", client.Endpoint(),
			"theme", views.Theme().Theme,
		)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}

// themeRegistry registers the built-in theme plus the manifest file at
// manifestPath, when set.
func themeRegistry(manifestPath string) (*theme.MemoryRegistry, error) {
	if manifestPath == "" {
		return view.NewRegistry()
	}
	manifest, err := theme.LoadFile(os.DirFS(filepath.Dir(manifestPath)), filepath.Base(manifestPath))
	if err != nil {
		return nil, fmt.Errorf("theme manifest: %w", err)
	}
	return view.NewRegistry(manifest)
}
