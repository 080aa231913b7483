package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Errors returned by the client registry.
var (
	ErrNotFound        = errs.New(errs.ErrNotFound, "client")
	ErrClientHasOrders = errs.New(errs.ErrConflict, "client has orders")
)

// Repository provides access to client storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new client repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns clients ordered by name. A non-empty name filters by
// case-insensitive substring.
func (r *Repository) List(ctx context.Context, name string) ([]domain.Client, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if name = strings.TrimSpace(name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var clients []domain.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// FindByID retrieves a client by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &c, nil
}

// Create saves a new client.
func (r *Repository) Create(ctx context.Context, c *domain.Client) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Update overwrites every editable field of a client.
func (r *Repository) Update(ctx context.Context, c *domain.Client) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":         c.Name,
			"company_name": c.CompanyName,
			"phone":        c.Phone,
			"address":      c.Address,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a client that no order references.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&order.Order{}).Where("client_id = ?", id).Count(&orders).Error; err != nil {
			return fmt.Errorf("failed to count client orders: %w", err)
		}
		if orders > 0 {
			return ErrClientHasOrders
		}

		result := tx.Delete(&domain.Client{}, "id = ?", id)
		if err := result.Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrClientHasOrders
			}
			return fmt.Errorf("failed to delete client: %w", err)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
