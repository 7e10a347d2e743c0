package bitcoind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bwt-dev/libbwt-go/internal/telemetry"
)

// App is a booted bitcoind engine
type App struct {
	client   *Client
	interval time.Duration
	metrics  *telemetry.NodeMetrics
	network  string
	server   *statusServer

	mu        sync.RWMutex
	last      *BlockchainInfo
	updatedAt time.Time
}

// ElectrumAddr always reports false, the engine has no Electrum server
func (*App) ElectrumAddr() (string, bool) {
	return "", false
}

// HTTPAddr returns the bound status server address
func (a *App) HTTPAddr() (string, bool) {
	if a.server == nil {
		return "", false
	}
	return a.server.addr(), true
}

// Sync serves the status API and follows the chain tip until shutdown fires
func (a *App) Sync(shutdown <-chan struct{}) error {
	g, ctx := errgroup.WithContext(context.Background())

	if a.server != nil {
		g.Go(a.server.serve)
	}

	g.Go(func() error {
		defer a.stopServer()

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		pollCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-pollCtx.Done():
			}
		}()

		for {
			a.poll(pollCtx)

			select {
			case <-shutdown:
				slog.Debug("Sync loop stopped")
				return nil
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	return g.Wait()
}

// Close releases the status server. It is used when the run stops before
// Sync.
func (a *App) Close() error {
	if a.server == nil {
		return nil
	}
	return a.server.close()
}

func (a *App) poll(ctx context.Context) {
	info, err := a.client.GetBlockchainInfo(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Failed to poll bitcoind", "error", err)
		}
		return
	}

	a.mu.Lock()
	previous := a.last
	a.last = info
	a.updatedAt = time.Now()
	a.mu.Unlock()

	a.metrics.RecordBlocks(ctx, info.Blocks)
	if previous == nil || previous.BestBlockHash != info.BestBlockHash {
		slog.Info("New chain tip", "blocks", info.Blocks, "best_block", info.BestBlockHash)
	}
}

func (a *App) stopServer() {
	if a.server == nil {
		return
	}
	if err := a.server.shutdown(); err != nil {
		slog.Error("Failed to stop status server", "error", err)
	}
}

// snapshot returns the last polled chain state
func (a *App) snapshot() (*BlockchainInfo, time.Time) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.updatedAt
}
