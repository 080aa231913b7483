package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	catalogmod "github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	ordermod "github.com/VinniciusRRosario/PMCsoftware/modules/order"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

type fakeStats struct {
	pending    int64
	inProgress int64
	lowStock   int64
	revenue    decimal.Decimal
	completed  int
	revenueErr error

	calls         atomic.Int32
	lastThreshold atomic.Int32
}

func (f *fakeStats) CountOrders(_ context.Context, status domain.Status) (*ordermod.CountOrdersResponse, error) {
	f.calls.Add(1)
	switch status {
	case domain.StatusPending:
		return &ordermod.CountOrdersResponse{Status: status, Count: f.pending}, nil
	case domain.StatusInProgress:
		return &ordermod.CountOrdersResponse{Status: status, Count: f.inProgress}, nil
	}
	return nil, errors.New("unexpected status")
}

func (f *fakeStats) CompletedRevenue(_ context.Context) (*ordermod.RevenueResponse, error) {
	f.calls.Add(1)
	if f.revenueErr != nil {
		return nil, f.revenueErr
	}
	return &ordermod.RevenueResponse{Revenue: f.revenue, Orders: f.completed}, nil
}

func (f *fakeStats) CountLowStock(_ context.Context, threshold int) (*catalogmod.CountLowStockResponse, error) {
	f.calls.Add(1)
	f.lastThreshold.Store(int32(threshold))
	return &catalogmod.CountLowStockResponse{Threshold: threshold, Count: f.lowStock}, nil
}

// memoryCache implements cache.CacheService in memory.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, time.Minute)
}

func (c *memoryCache) SetWithTTL(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestService_SnapshotFigures(t *testing.T) {
	stats := &fakeStats{
		pending:    3,
		inProgress: 2,
		lowStock:   4,
		revenue:    decimal.RequireFromString("1250.50"),
		completed:  7,
	}
	svc := NewService(stats, stats, nil, 0, &mockLogger{})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.PendingOrders)
	assert.Equal(t, int64(2), snap.InProgressOrders)
	assert.Equal(t, int64(4), snap.LowStockProducts)
	assert.Equal(t, catalog.LowStockThreshold, snap.LowStockThreshold)
	assert.Equal(t, int32(catalog.LowStockThreshold), stats.lastThreshold.Load())
	assert.True(t, decimal.RequireFromString("1250.50").Equal(snap.Revenue))
	assert.Equal(t, 7, snap.CompletedOrders)
	assert.False(t, snap.Cached)
	assert.Equal(t, int32(4), stats.calls.Load(), "one call per figure")
}

func TestService_CustomThreshold(t *testing.T) {
	stats := &fakeStats{}
	svc := NewService(stats, stats, nil, 25, &mockLogger{})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, snap.LowStockThreshold)
	assert.Equal(t, int32(25), stats.lastThreshold.Load())
}

func TestService_CachesUntilInvalidated(t *testing.T) {
	stats := &fakeStats{pending: 1}
	svc := NewService(stats, stats, newMemoryCache(), 0, &mockLogger{})
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, int32(4), stats.calls.Load())

	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(1), second.PendingOrders)
	assert.Equal(t, int32(4), stats.calls.Load(), "cached snapshot must not query")

	stats.pending = 5
	svc.Invalidate(ctx)

	third, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int64(5), third.PendingOrders)
	assert.Equal(t, int32(8), stats.calls.Load())
}

func TestService_ErrorIsNotCached(t *testing.T) {
	stats := &fakeStats{revenueErr: errors.New("database unavailable")}
	memCache := newMemoryCache()
	svc := NewService(stats, stats, memCache, 0, &mockLogger{})
	ctx := context.Background()

	_, err := svc.Snapshot(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Empty(t, memCache.data)

	stats.revenueErr = nil
	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Cached)
}

func TestService_ConcurrentSnapshots(t *testing.T) {
	stats := &fakeStats{pending: 2, lowStock: 1}
	svc := NewService(stats, stats, newMemoryCache(), 0, &mockLogger{})
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	results := make([]Snapshot, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Snapshot(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(2), results[i].PendingOrders)
		assert.Equal(t, int64(1), results[i].LowStockProducts)
	}

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Cached)
}
