package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"github.com/bwt-dev/libbwt-go/internal/bitcoind"
	"github.com/bwt-dev/libbwt-go/internal/telemetry"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/daemon"
	"github.com/bwt-dev/libbwt-go/pkg/versions"
)

const (
	telemetryShutdownTimeout = 10 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
	metricsReadTimeout       = 10 * time.Second
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wallet tracker",
	Long: `Start the wallet tracker with the engine configuration file (--config).

The daemon blocks until the engine stops. SIGINT and SIGTERM request a
graceful shutdown, at any point of the boot sequence.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().String("metrics-address", "", "Address to serve Prometheus metrics on (disabled when empty)")
	startCmd.Flags().String("telemetry-config", "", "Path to the telemetry configuration file (JSON or YAML)")

	if err := viper.BindPFlag("metrics-address", startCmd.Flags().Lookup("metrics-address")); err != nil {
		slog.Error("Failed to bind metrics-address flag", "error", err)
	}
	if err := viper.BindPFlag("telemetry-config", startCmd.Flags().Lookup("telemetry-config")); err != nil {
		slog.Error("Failed to bind telemetry-config flag", "error", err)
	}
}

func runStart(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadEngineConfig(viper.GetString("config"))
	if err != nil {
		return err
	}

	metricsAddress := viper.GetString("metrics-address")
	telemetryCfg, err := buildTelemetryConfig(viper.GetString("telemetry-config"), metricsAddress)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(telemetryCfg), telemetry.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	if err := daemon.SetTelemetry(tel.MeterProvider(), tel.TracerProvider()); err != nil {
		return fmt.Errorf("failed to configure daemon telemetry: %w", err)
	}
	daemon.RegisterEngine(bitcoind.New(
		bitcoind.WithMeterProvider(tel.MeterProvider()),
		bitcoind.WithTracerProvider(tel.TracerProvider()),
		bitcoind.WithGatherer(registry),
	))

	d := daemon.NewDaemon(cfg)
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancelRun()
		return d.Start(&logNotifier{})
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			slog.Info("Received shutdown signal")
		}
		d.Shutdown()
		return nil
	})
	if metricsAddress != "" {
		server := newMetricsServer(metricsAddress, registry)
		g.Go(func() error {
			slog.Info("Metrics server listening", "address", metricsAddress)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Daemon stopped")
	return nil
}

// loadEngineConfig reads and parses the engine configuration file
func loadEngineConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, errors.New("a configuration file is required (--config)")
	}
	doc, err := config.NewDocumentLoader().LoadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, err := config.Parse(doc)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded configuration", "path", path, "network", cfg.GetNetwork())
	return cfg, nil
}

// buildTelemetryConfig loads the telemetry file, if any. A metrics address
// switches metrics to the Prometheus exporter.
func buildTelemetryConfig(path, metricsAddress string) (*telemetry.Config, error) {
	cfg := &telemetry.Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read telemetry config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse telemetry config: %w", err)
		}
	}

	if metricsAddress != "" {
		if cfg.Metrics != nil && cfg.Metrics.Enabled && cfg.Metrics.GetExporter() != telemetry.ExporterPrometheus {
			slog.Warn("Metrics address set, using the Prometheus exporter", "configured_exporter", cfg.Metrics.GetExporter())
		}
		cfg.Enabled = true
		cfg.Metrics = &telemetry.MetricsConfig{Enabled: true, Exporter: telemetry.ExporterPrometheus}
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = versions.GetVersionInfo().Version
	}
	return cfg, nil
}

func newMetricsServer(address string, gatherer prometheus.Gatherer) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              address,
		Handler:           r,
		ReadHeaderTimeout: metricsReadTimeout,
	}
}

// logNotifier reports the daemon lifecycle through slog
type logNotifier struct{}

func (*logNotifier) OnBooting() {
	slog.Info("Booting engine")
}

func (*logNotifier) OnSyncProgress(progress float32, tip time.Time) {
	slog.Info("Syncing chain", "progress", fmt.Sprintf("%.2f%%", progress*100), "tip", tip.UTC())
}

func (*logNotifier) OnScanProgress(progress float32, eta time.Duration) {
	slog.Info("Scanning wallet", "progress", fmt.Sprintf("%.2f%%", progress*100), "eta", eta)
}

func (*logNotifier) OnReady(d *daemon.Daemon) {
	slog.Info("Daemon ready", "electrum_addr", d.ElectrumAddr(), "http_addr", d.HTTPAddr())
}
