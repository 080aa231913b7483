package catalog

import (
	"context"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// Validation errors (exported for error checking via errors.Is).
var (
	ErrIDRequired  = errs.New(errs.ErrInvalidInput, "product id is required")
	ErrIDInvalid   = errs.New(errs.ErrInvalidInput, "product id is not a valid UUID")
	ErrIDsRequired = errs.New(errs.ErrInvalidInput, "at least one product id is required")
)

// ProductRepository is the storage used by the catalog service.
type ProductRepository interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
	CountBelow(ctx context.Context, threshold int) (int64, error)
}

// CatalogService defines the product catalog operations.
type CatalogService interface {
	List(ctx context.Context, req ListProductsRequest) (ListProductsResponse, error)
	Categories(ctx context.Context, req ListCategoriesRequest) (ListCategoriesResponse, error)
	Get(ctx context.Context, req GetProductRequest) (ProductResponse, error)
	Create(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	Update(ctx context.Context, req UpdateProductRequest) (ProductResponse, error)
	Delete(ctx context.Context, req DeleteProductRequest) (DeleteProductsResponse, error)
	DeleteMany(ctx context.Context, req DeleteProductsRequest) (DeleteProductsResponse, error)
	AdjustStock(ctx context.Context, req AdjustStockRequest) (AdjustStockResponse, error)
	CountLowStock(ctx context.Context, req CountLowStockRequest) (CountLowStockResponse, error)
}

// CatalogServiceImpl implements CatalogService over a ProductRepository.
type CatalogServiceImpl struct {
	repo     ProductRepository
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface check.
var _ CatalogService = (*CatalogServiceImpl)(nil)

// NewCatalogService creates the catalog service. eventBus may be nil.
func NewCatalogService(repo ProductRepository, eventBus mono.EventBus, logger types.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// List returns products ordered by name.
func (s *CatalogServiceImpl) List(ctx context.Context, req ListProductsRequest) (ListProductsResponse, error) {
	products, err := s.repo.List(ctx, req.Category)
	if err != nil {
		return ListProductsResponse{}, err
	}

	resp := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return resp, nil
}

// Categories returns the categories currently in use.
func (s *CatalogServiceImpl) Categories(ctx context.Context, _ ListCategoriesRequest) (ListCategoriesResponse, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	if categories == nil {
		categories = []string{}
	}
	return ListCategoriesResponse{Categories: categories}, nil
}

// Get returns a single product.
func (s *CatalogServiceImpl) Get(ctx context.Context, req GetProductRequest) (ProductResponse, error) {
	if err := validateID(req.ID); err != nil {
		return ProductResponse{}, err
	}
	product, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// Create adds a product. Stock starts at InitialStock, zero by default.
func (s *CatalogServiceImpl) Create(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Category:     req.Category,
		UnitPrice:    req.UnitPrice,
		CurrentStock: req.InitialStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := product.Validate(); err != nil {
		return ProductResponse{}, errs.Invalid(err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return ProductResponse{}, err
	}

	s.publishProductChanged([]string{product.ID}, events.ProductCreated)
	s.logger.Info("Product created", "id", product.ID, "name", product.Name)
	return toProductResponse(product), nil
}

// Update edits name, category and price.
func (s *CatalogServiceImpl) Update(ctx context.Context, req UpdateProductRequest) (ProductResponse, error) {
	if err := validateID(req.ID); err != nil {
		return ProductResponse{}, err
	}

	changes := &domain.Product{
		ID:        req.ID,
		Name:      req.Name,
		Category:  req.Category,
		UnitPrice: req.UnitPrice,
	}
	if err := changes.Validate(); err != nil {
		return ProductResponse{}, errs.Invalid(err)
	}

	if err := s.repo.Update(ctx, changes); err != nil {
		return ProductResponse{}, err
	}

	product, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return ProductResponse{}, err
	}

	s.publishProductChanged([]string{product.ID}, events.ProductUpdated)
	return toProductResponse(product), nil
}

// Delete removes one product.
func (s *CatalogServiceImpl) Delete(ctx context.Context, req DeleteProductRequest) (DeleteProductsResponse, error) {
	if err := validateID(req.ID); err != nil {
		return DeleteProductsResponse{}, err
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return DeleteProductsResponse{}, err
	}

	s.publishProductChanged([]string{req.ID}, events.ProductDeleted)
	return DeleteProductsResponse{Deleted: 1}, nil
}

// DeleteMany removes several products, all or none.
func (s *CatalogServiceImpl) DeleteMany(ctx context.Context, req DeleteProductsRequest) (DeleteProductsResponse, error) {
	if len(req.IDs) == 0 {
		return DeleteProductsResponse{}, ErrIDsRequired
	}
	for _, id := range req.IDs {
		if err := validateID(id); err != nil {
			return DeleteProductsResponse{}, err
		}
	}

	deleted, err := s.repo.DeleteMany(ctx, req.IDs)
	if err != nil {
		return DeleteProductsResponse{}, err
	}

	s.publishProductChanged(req.IDs, events.ProductDeleted)
	return DeleteProductsResponse{Deleted: deleted}, nil
}

// AdjustStock adds or removes units from a product's stock atomically.
func (s *CatalogServiceImpl) AdjustStock(ctx context.Context, req AdjustStockRequest) (AdjustStockResponse, error) {
	if err := validateID(req.ID); err != nil {
		return AdjustStockResponse{}, err
	}
	delta, err := domain.Delta(req.Amount, req.Direction)
	if err != nil {
		return AdjustStockResponse{}, errs.Invalid(err)
	}

	stock, err := s.repo.AdjustStock(ctx, req.ID, delta)
	if err != nil {
		return AdjustStockResponse{}, err
	}

	if s.eventBus != nil {
		event := events.StockAdjustedEvent{
			ProductID:  req.ID,
			Delta:      delta,
			NewStock:   stock,
			AdjustedAt: time.Now(),
		}
		if err := events.StockAdjustedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish StockAdjusted event", "product_id", req.ID, "error", err)
		}
	}

	s.logger.Info("Stock adjusted", "product_id", req.ID, "delta", delta, "stock", stock)
	return AdjustStockResponse{ID: req.ID, Delta: delta, CurrentStock: stock}, nil
}

// CountLowStock counts products below the threshold, LowStockThreshold when unset.
func (s *CatalogServiceImpl) CountLowStock(ctx context.Context, req CountLowStockRequest) (CountLowStockResponse, error) {
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = domain.LowStockThreshold
	}
	count, err := s.repo.CountBelow(ctx, threshold)
	if err != nil {
		return CountLowStockResponse{}, err
	}
	return CountLowStockResponse{Threshold: threshold, Count: count}, nil
}

func (s *CatalogServiceImpl) publishProductChanged(ids []string, action string) {
	if s.eventBus == nil {
		return
	}
	event := events.ProductChangedEvent{
		ProductIDs: ids,
		Action:     action,
		ChangedAt:  time.Now(),
	}
	if err := events.ProductChangedV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish ProductChanged event", "action", action, "error", err)
	}
}

func validateID(id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrIDInvalid
	}
	return nil
}
