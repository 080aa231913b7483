// Package dashboard aggregates order, stock and revenue figures for the
// back-office home screen.
package dashboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/modules/cache"
	catalogmod "github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	ordermod "github.com/VinniciusRRosario/PMCsoftware/modules/order"
)

const snapshotKey = "dashboard:snapshot"

// OrderStats is the part of the order ledger the dashboard reads.
type OrderStats interface {
	CountOrders(ctx context.Context, status domain.Status) (*ordermod.CountOrdersResponse, error)
	CompletedRevenue(ctx context.Context) (*ordermod.RevenueResponse, error)
}

// StockStats is the part of the catalog the dashboard reads.
type StockStats interface {
	CountLowStock(ctx context.Context, threshold int) (*catalogmod.CountLowStockResponse, error)
}

// Snapshot is the dashboard summary.
type Snapshot struct {
	PendingOrders     int64           `json:"pending_orders"`
	InProgressOrders  int64           `json:"in_progress_orders"`
	LowStockProducts  int64           `json:"low_stock_products"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Revenue           decimal.Decimal `json:"revenue"`
	CompletedOrders   int             `json:"completed_orders"`
	GeneratedAt       time.Time       `json:"generated_at"`
	Cached            bool            `json:"cached"`
}

// Service computes dashboard snapshots. The four figures are read
// concurrently, concurrent misses share one computation and results are
// cached until the next ledger or catalog change.
type Service struct {
	orders    OrderStats
	stock     StockStats
	cache     cache.CacheService
	threshold int
	logger    types.Logger

	sfGroup    singleflight.Group
	generation atomic.Uint64
}

// NewService creates the dashboard service. cacheSvc may be nil.
func NewService(orders OrderStats, stock StockStats, cacheSvc cache.CacheService, threshold int, logger types.Logger) *Service {
	if threshold <= 0 {
		threshold = catalog.LowStockThreshold
	}
	return &Service{
		orders:    orders,
		stock:     stock,
		cache:     cacheSvc,
		threshold: threshold,
		logger:    logger,
	}
}

// Snapshot returns the current dashboard figures.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.cache != nil {
		var cached Snapshot
		found, err := s.cache.Get(ctx, snapshotKey, &cached)
		if err != nil {
			s.logger.Warn("Cache read failed", "key", snapshotKey, "error", err)
		}
		if found {
			cached.Cached = true
			return cached, nil
		}
	}

	gen := s.generation.Load()
	val, err, _ := s.sfGroup.Do(fmt.Sprintf("snapshot:%d", gen), func() (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return Snapshot{}, err
	}
	snap := val.(Snapshot)

	// a change that landed while computing makes this result stale
	if s.cache != nil && s.generation.Load() == gen {
		if err := s.cache.Set(ctx, snapshotKey, snap); err != nil {
			s.logger.Warn("Cache write failed", "key", snapshotKey, "error", err)
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (s *Service) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, snapshotKey); err != nil {
		s.logger.Warn("Cache invalidation failed", "key", snapshotKey, "error", err)
	}
}

func (s *Service) compute(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{LowStockThreshold: s.threshold}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.orders.CountOrders(gctx, domain.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to count pending orders: %w", err)
		}
		snap.PendingOrders = resp.Count
		return nil
	})
	g.Go(func() error {
		resp, err := s.orders.CountOrders(gctx, domain.StatusInProgress)
		if err != nil {
			return fmt.Errorf("failed to count in-progress orders: %w", err)
		}
		snap.InProgressOrders = resp.Count
		return nil
	})
	g.Go(func() error {
		resp, err := s.stock.CountLowStock(gctx, s.threshold)
		if err != nil {
			return fmt.Errorf("failed to count low stock products: %w", err)
		}
		snap.LowStockProducts = resp.Count
		return nil
	})
	g.Go(func() error {
		resp, err := s.orders.CompletedRevenue(gctx)
		if err != nil {
			return fmt.Errorf("failed to sum revenue: %w", err)
		}
		snap.Revenue = resp.Revenue
		snap.CompletedOrders = resp.Orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.GeneratedAt = time.Now()
	return snap, nil
}
