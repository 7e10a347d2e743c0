package bitcoind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bwt-dev/libbwt-go/internal/telemetry"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Network              string    `json:"network"`
	Chain                string    `json:"chain"`
	Blocks               int64     `json:"blocks"`
	Headers              int64     `json:"headers"`
	BestBlockHash        string    `json:"best_block_hash"`
	VerificationProgress float64   `json:"verification_progress"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ErrorResponse is the body of failed status requests
type ErrorResponse struct {
	Error string `json:"error"`
}

type statusServer struct {
	listener net.Listener
	server   *http.Server
}

func (e *Engine) newStatusServer(address string, app *App) (*statusServer, error) {
	httpMetrics, err := telemetry.NewHTTPMetrics(e.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	r := chi.NewRouter()
	r.Use(
		httpMetrics.Middleware,
		middleware.RequestID,
		middleware.Recoverer,
		telemetry.TracingMiddleware(e.tracerProvider),
	)
	r.Get("/health", healthHandler)
	r.Get("/status", app.statusHandler)
	if e.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{}))
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return &statusServer{
		listener: listener,
		server: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

func (s *statusServer) addr() string {
	return s.listener.Addr().String()
}

func (s *statusServer) serve() error {
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server failed: %w", err)
	}
	return nil
}

func (s *statusServer) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server forced to shutdown: %w", err)
	}
	return s.closeListener()
}

func (s *statusServer) close() error {
	if err := s.server.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return s.closeListener()
}

// closeListener releases a listener that was never handed to Serve
func (s *statusServer) closeListener() error {
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (a *App) statusHandler(w http.ResponseWriter, _ *http.Request) {
	info, updatedAt := a.snapshot()
	if info == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "chain state not available yet"})
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Network:              a.network,
		Chain:                info.Chain,
		Blocks:               info.Blocks,
		Headers:              info.Headers,
		BestBlockHash:        info.BestBlockHash,
		VerificationProgress: info.VerificationProgress,
		UpdatedAt:            updatedAt.UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
