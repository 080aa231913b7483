package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
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

// mockRepository implements ProductRepository with overridable functions.
type mockRepository struct {
	products       map[string]*domain.Product
	adjustStockFn  func(ctx context.Context, id string, delta int) (int, error)
	countBelowFn   func(ctx context.Context, threshold int) (int64, error)
	lastDeletedIDs []string
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[string]*domain.Product)}
}

func (r *mockRepository) List(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *mockRepository) Categories(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *mockRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *mockRepository) Create(_ context.Context, p *domain.Product) error {
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *mockRepository) Update(_ context.Context, p *domain.Product) error {
	existing, ok := r.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = p.Name
	existing.Category = p.Category
	existing.UnitPrice = p.UnitPrice
	return nil
}

func (r *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *mockRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.lastDeletedIDs = ids
	var n int64
	for _, id := range ids {
		if _, ok := r.products[id]; ok {
			delete(r.products, id)
			n++
		}
	}
	return n, nil
}

func (r *mockRepository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	if r.adjustStockFn != nil {
		return r.adjustStockFn(ctx, id, delta)
	}
	p, ok := r.products[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}

func (r *mockRepository) CountBelow(ctx context.Context, threshold int) (int64, error) {
	if r.countBelowFn != nil {
		return r.countBelowFn(ctx, threshold)
	}
	var n int64
	for _, p := range r.products {
		if p.CurrentStock < threshold {
			n++
		}
	}
	return n, nil
}

func TestCatalogService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateProductRequest
		wantErr error
	}{
		{
			name: "valid product starts with zero stock",
			req:  CreateProductRequest{Name: "Parafuso", UnitPrice: decimal.RequireFromString("1.50")},
		},
		{
			name: "initial stock is kept",
			req:  CreateProductRequest{Name: "Cola", UnitPrice: decimal.Zero, InitialStock: 12},
		},
		{
			name:    "empty name",
			req:     CreateProductRequest{Name: "  ", UnitPrice: decimal.Zero},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "negative price",
			req:     CreateProductRequest{Name: "Cola", UnitPrice: decimal.RequireFromString("-1")},
			wantErr: domain.ErrNegativePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := NewCatalogService(repo, nil, &mockLogger{})

			resp, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, errs.ErrInvalidInput)
				assert.Empty(t, repo.products)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.ID)
			assert.Equal(t, tt.req.InitialStock, resp.CurrentStock)
			assert.Contains(t, repo.products, resp.ID)
		})
	}
}

func TestCatalogService_Update(t *testing.T) {
	repo := newMockRepository()
	svc := NewCatalogService(repo, nil, &mockLogger{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Parafuso", UnitPrice: decimal.RequireFromString("1.00"), InitialStock: 4})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateProductRequest{
		ID:        created.ID,
		Name:      "Parafuso M8",
		Category:  "ferragens",
		UnitPrice: decimal.RequireFromString("2.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Parafuso M8", updated.Name)
	assert.Equal(t, 4, updated.CurrentStock)

	_, err = svc.Update(ctx, UpdateProductRequest{ID: uuid.NewString(), Name: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Update(ctx, UpdateProductRequest{ID: "not-a-uuid", Name: "x"})
	assert.ErrorIs(t, err, ErrIDInvalid)

	_, err = svc.Update(ctx, UpdateProductRequest{ID: created.ID})
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestCatalogService_AdjustStock(t *testing.T) {
	repo := newMockRepository()
	svc := NewCatalogService(repo, nil, &mockLogger{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Parafuso", UnitPrice: decimal.Zero, InitialStock: 3})
	require.NoError(t, err)

	resp, err := svc.AdjustStock(ctx, AdjustStockRequest{ID: created.ID, Amount: 5, Direction: domain.DirectionAdd})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Delta)
	assert.Equal(t, 8, resp.CurrentStock)

	resp, err = svc.AdjustStock(ctx, AdjustStockRequest{ID: created.ID, Amount: 10, Direction: domain.DirectionRemove})
	require.NoError(t, err)
	assert.Equal(t, -10, resp.Delta)
	assert.Equal(t, -2, resp.CurrentStock)

	invalid := []AdjustStockRequest{
		{ID: created.ID, Amount: 0, Direction: domain.DirectionAdd},
		{ID: created.ID, Amount: -3, Direction: domain.DirectionRemove},
		{ID: created.ID, Amount: 1, Direction: "sideways"},
		{ID: "", Amount: 1, Direction: domain.DirectionAdd},
	}
	for _, req := range invalid {
		_, err := svc.AdjustStock(ctx, req)
		assert.ErrorIs(t, err, errs.ErrInvalidInput, "request %+v", req)
	}
}

func TestCatalogService_AdjustStockRepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.adjustStockFn = func(context.Context, string, int) (int, error) {
		return 0, errors.New("connection reset")
	}
	svc := NewCatalogService(repo, nil, &mockLogger{})

	_, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ID:        uuid.NewString(),
		Amount:    1,
		Direction: domain.DirectionAdd,
	})
	require.Error(t, err)
	assert.Nil(t, errs.Kind(err))
}

func TestCatalogService_DeleteMany(t *testing.T) {
	repo := newMockRepository()
	svc := NewCatalogService(repo, nil, &mockLogger{})
	ctx := context.Background()

	_, err := svc.DeleteMany(ctx, DeleteProductsRequest{})
	assert.ErrorIs(t, err, ErrIDsRequired)

	_, err = svc.DeleteMany(ctx, DeleteProductsRequest{IDs: []string{uuid.NewString(), "bad"}})
	assert.ErrorIs(t, err, ErrIDInvalid)
	assert.Nil(t, repo.lastDeletedIDs, "repository must not be called with invalid ids")

	a, _ := svc.Create(ctx, CreateProductRequest{Name: "A", UnitPrice: decimal.Zero})
	b, _ := svc.Create(ctx, CreateProductRequest{Name: "B", UnitPrice: decimal.Zero})

	resp, err := svc.DeleteMany(ctx, DeleteProductsRequest{IDs: []string{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)
	assert.Empty(t, repo.products)
}

func TestCatalogService_CountLowStockDefaultsThreshold(t *testing.T) {
	repo := newMockRepository()
	var gotThreshold int
	repo.countBelowFn = func(_ context.Context, threshold int) (int64, error) {
		gotThreshold = threshold
		return 4, nil
	}
	svc := NewCatalogService(repo, nil, &mockLogger{})

	resp, err := svc.CountLowStock(context.Background(), CountLowStockRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.LowStockThreshold, gotThreshold)
	assert.Equal(t, int64(4), resp.Count)

	resp, err = svc.CountLowStock(context.Background(), CountLowStockRequest{Threshold: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, gotThreshold)
	assert.Equal(t, 3, resp.Threshold)
}

func TestCatalogService_CategoriesNeverNil(t *testing.T) {
	svc := NewCatalogService(newMockRepository(), nil, &mockLogger{})

	resp, err := svc.Categories(context.Background(), ListCategoriesRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Categories)
}
