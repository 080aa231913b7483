package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Errors returned by the catalog.
var (
	ErrNotFound     = errs.New(errs.ErrNotFound, "product")
	ErrProductInUse = errs.New(errs.ErrConflict, "product is linked to an order")
)

// Repository provides access to product storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns products ordered by name, optionally restricted to a category.
func (r *Repository) List(ctx context.Context, category string) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct non-empty categories in use.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// FindByID retrieves a product by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// Create saves a new product.
func (r *Repository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the editable fields of a product. Stock is left untouched.
func (r *Repository) Update(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":       product.Name,
			"category":   product.Category,
			"unit_price": product.UnitPrice,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. Products referenced by order items are kept.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes several products atomically and returns how many were
// deleted. If any of them is referenced, none are deleted.
func (r *Repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id IN ?", ids).Delete(&domain.Product{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return 0, ErrProductInUse
		}
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}
	return deleted, nil
}

// AdjustStock applies a signed change to a product's stock and returns the
// resulting level.
func (r *Repository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := domain.ApplyStockDelta(tx, id, delta)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return tx.Model(&domain.Product{}).
			Select("current_stock").
			Where("id = ?", id).
			Row().
			Scan(&stock)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return stock, nil
}

// CountBelow counts products whose stock is under threshold.
func (r *Repository) CountBelow(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("current_stock < ?", threshold).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return count, nil
}
