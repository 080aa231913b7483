package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
	"github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := database.Open(database.Config{
		Driver:       database.DriverSQLite,
		DSN:          "file:" + path + "?_foreign_keys=1&_busy_timeout=5000",
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedProduct(t *testing.T, repo *Repository, name, category string, stock int) *domain.Product {
	t.Helper()
	now := time.Now()
	p := &domain.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		UnitPrice:    decimal.RequireFromString("10.00"),
		CurrentStock: stock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// linkToOrder creates an order with one item referencing the product.
func linkToOrder(t *testing.T, db *gorm.DB, productID string) {
	t.Helper()
	now := time.Now()
	c := &client.Client{ID: uuid.NewString(), Name: "Ana", Phone: "555", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(c).Error)
	o := &order.Order{
		ID:               uuid.NewString(),
		Code:             uuid.NewString()[:8],
		ClientID:         c.ID,
		DeliveryDeadline: now,
		Status:           order.StatusPending,
		DiscountType:     finance.DiscountPercent,
		DiscountValue:    decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(o).Error)
	item := &order.Item{
		ID:         uuid.NewString(),
		OrderID:    o.ID,
		ProductID:  productID,
		QtyOrdered: 1,
		UnitPrice:  decimal.RequireFromString("10.00"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(item).Error)
}

func TestRepository_ListOrderedAndFiltered(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, "Parafuso", "ferragens", 5)
	seedProduct(t, repo, "Arruela", "ferragens", 50)
	seedProduct(t, repo, "Cola", "", 3)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arruela", all[0].Name)
	assert.Equal(t, "Cola", all[1].Name)
	assert.Equal(t, "Parafuso", all[2].Name)

	filtered, err := repo.List(ctx, "ferragens")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ferragens"}, categories)

	low, err := repo.CountBelow(ctx, domain.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(2), low)
}

func TestRepository_UpdateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Parafuso", "", 7)

	err := repo.Update(ctx, &domain.Product{
		ID:        p.ID,
		Name:      "Parafuso M6",
		Category:  "ferragens",
		UnitPrice: decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Parafuso M6", got.Name)
	assert.Equal(t, "ferragens", got.Category)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.UnitPrice))
	assert.Equal(t, 7, got.CurrentStock, "update must not touch stock")

	err = repo.Update(ctx, &domain.Product{ID: uuid.NewString(), Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_DeleteInUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	used := seedProduct(t, repo, "Parafuso", "", 0)
	free := seedProduct(t, repo, "Cola", "", 0)
	linkToOrder(t, db, used.ID)

	err := repo.Delete(ctx, used.ID)
	require.ErrorIs(t, err, ErrProductInUse)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = repo.DeleteMany(ctx, []string{free.ID, used.ID})
	require.ErrorIs(t, err, ErrProductInUse)

	// all-or-nothing: the free product survives the failed batch
	_, err = repo.FindByID(ctx, free.ID)
	require.NoError(t, err)

	deleted, err := repo.DeleteMany(ctx, []string{free.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.ErrorIs(t, repo.Delete(ctx, free.ID), ErrNotFound)
}

func TestRepository_AdjustStock(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Parafuso", "", 2)

	stock, err := repo.AdjustStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	// stock has no floor
	stock, err = repo.AdjustStock(ctx, p.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, -3, stock)

	_, err = repo.AdjustStock(ctx, uuid.NewString(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_AdjustStockConcurrent(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Parafuso", "", 100)

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			delta := 3
			if i%2 == 0 {
				delta = -1
			}
			if _, err := repo.AdjustStock(ctx, p.ID, delta); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("AdjustStock() error = %v", err)
	}

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	// 10 adds of 3, 10 removes of 1
	assert.Equal(t, 100+30-10, got.CurrentStock)
}
