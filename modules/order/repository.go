package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	clientdomain "github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/events"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Errors returned by the order ledger and fulfillment engine.
var (
	ErrNotFound             = errs.New(errs.ErrNotFound, "order")
	ErrItemNotFound         = errs.New(errs.ErrNotFound, "order item")
	ErrUnknownClient        = errs.New(errs.ErrInvalidInput, "client does not exist")
	ErrUnknownProduct       = errs.New(errs.ErrInvalidInput, "product does not exist")
	ErrDuplicateCode        = errs.New(errs.ErrConflict, "order code already in use")
	ErrOverflowNotConfirmed = errs.New(errs.ErrConflict, "quantity exceeds the ordered amount and the overflow was not confirmed")
)

// Draft is an order ready to be persisted. Items are built from Lines
// inside the creating transaction.
type Draft struct {
	Order     *domain.Order
	NewClient *clientdomain.Client
	Lines     []CartLine
	NewID     func() string
}

// Confirmation is the outcome of a production confirmation.
type Confirmation struct {
	Item         domain.Item
	Status       domain.Status
	ProductStock int
}

// Repository provides transactional access to orders and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a draft in one transaction: the optional new client, the
// order row and its items. Stock is not touched.
func (r *Repository) Create(ctx context.Context, draft Draft) error {
	o := draft.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if draft.NewClient != nil {
			if err := tx.Create(draft.NewClient).Error; err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			o.ClientID = draft.NewClient.ID
		} else {
			var clients int64
			if err := tx.Model(&clientdomain.Client{}).Where("id = ?", o.ClientID).Count(&clients).Error; err != nil {
				return fmt.Errorf("failed to check client: %w", err)
			}
			if clients == 0 {
				return ErrUnknownClient
			}
		}

		items := make([]domain.Item, 0, len(draft.Lines))
		for i, line := range draft.Lines {
			var product catalog.Product
			if err := tx.Select("id", "unit_price").First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownProduct
				}
				return fmt.Errorf("failed to load product: %w", err)
			}
			price := product.UnitPrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			items = append(items, domain.Item{
				ID:           draft.NewID(),
				OrderID:      o.ID,
				ProductID:    product.ID,
				Position:     i,
				QtyOrdered:   line.Quantity,
				QtyDelivered: 0,
				UnitPrice:    price,
				CreatedAt:    o.CreatedAt,
				UpdatedAt:    o.CreatedAt,
			})
		}

		if err := tx.Omit("Client", "Items").Create(o).Error; err != nil {
			return err
		}
		if err := tx.Omit("Order", "Product").Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		o.Items = items
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownClient), errors.Is(err, ErrUnknownProduct):
			return err
		case database.IsDuplicateKey(err):
			return ErrDuplicateCode
		case database.IsForeignKeyViolation(err):
			return ErrUnknownProduct
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Products loads the products referenced by a cart, keyed by ID.
func (r *Repository) Products(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// FindDetail loads an order with its client, items and their products.
func (r *Repository) FindDetail(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", byPosition).
		Preload("Items.Product").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// List returns orders in the given statuses ordered by delivery deadline.
// An empty status list returns every order.
func (r *Repository) List(ctx context.Context, statuses []domain.Status) ([]domain.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", byPosition).
		Order("delivery_deadline ASC").
		Order("created_at ASC")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var orders []domain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// DeleteMany removes orders and their items in one transaction.
func (r *Repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN ?", ids).Delete(&domain.Item{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		result := tx.Where("id IN ?", ids).Delete(&domain.Order{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete orders: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ConfirmProduction adds quantity to an item's delivered count, debits the
// product's stock and moves a pending order to in-progress, all in one
// transaction. Nothing is written when the overflow was not allowed. A
// concluded order keeps its status.
func (r *Repository) ConfirmProduction(ctx context.Context, itemID string, quantity int, allowOverflow bool) (*Confirmation, error) {
	var result Confirmation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Order").
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to load order item: %w", err)
		}
		if item.Order == nil {
			return ErrNotFound
		}
		if item.Overflows(quantity) && !allowOverflow {
			return ErrOverflowNotConfirmed
		}

		now := time.Now()
		if err := tx.Model(&domain.Item{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"qty_delivered": gorm.Expr("qty_delivered + ?", quantity),
				"updated_at":    now,
			}).Error; err != nil {
			return fmt.Errorf("failed to update delivered quantity: %w", err)
		}

		if _, err := catalog.ApplyStockDelta(tx, item.ProductID, -quantity); err != nil {
			return err
		}

		if item.Order.Status.CanTransitionTo(domain.StatusInProgress) {
			if err := tx.Model(&domain.Order{}).
				Where("id = ? AND status = ?", item.OrderID, domain.StatusPending).
				Updates(map[string]any{
					"status":     domain.StatusInProgress,
					"updated_at": now,
				}).Error; err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
		}

		if err := tx.First(&result.Item, "id = ?", item.ID).Error; err != nil {
			return fmt.Errorf("failed to reload order item: %w", err)
		}
		if err := tx.Model(&domain.Order{}).
			Select("status").
			Where("id = ?", item.OrderID).
			Row().
			Scan(&result.Status); err != nil {
			return fmt.Errorf("failed to reload order status: %w", err)
		}
		if err := tx.Model(&catalog.Product{}).
			Select("current_stock").
			Where("id = ?", item.ProductID).
			Row().
			Scan(&result.ProductStock); err != nil {
			return fmt.Errorf("failed to reload product stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ForceFinish marks every item fully delivered, debits the stock for what
// was still outstanding item by item, and concludes the order. Items that
// were already complete cause no stock change.
func (r *Repository) ForceFinish(ctx context.Context, orderID string) ([]events.StockDelta, error) {
	debits := []events.StockDelta{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items", byPosition).
			First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		concluded := o.Status == domain.StatusCompleted
		if !concluded && !o.Status.CanTransitionTo(domain.StatusCompleted) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		for i := range o.Items {
			it := &o.Items[i]
			remaining := it.Remaining()
			if remaining == 0 {
				continue
			}
			if err := tx.Model(&domain.Item{}).
				Where("id = ?", it.ID).
				Updates(map[string]any{
					"qty_delivered": gorm.Expr("qty_ordered"),
					"updated_at":    now,
				}).Error; err != nil {
				return fmt.Errorf("failed to complete order item: %w", err)
			}
			if _, err := catalog.ApplyStockDelta(tx, it.ProductID, -remaining); err != nil {
				return err
			}
			debits = append(debits, events.StockDelta{ProductID: it.ProductID, Quantity: remaining})
		}

		if concluded {
			return nil
		}
		if err := tx.Model(&domain.Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{
				"status":     domain.StatusCompleted,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to conclude order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return debits, nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// CountByStatus counts orders in one status.
func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// CompletedRevenue sums the totals of concluded orders.
func (r *Repository) CompletedRevenue(ctx context.Context) (decimal.Decimal, int, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", domain.StatusCompleted).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to load concluded orders: %w", err)
	}

	revenue := decimal.Zero
	for i := range orders {
		revenue = revenue.Add(orders[i].Summary().Total)
	}
	return revenue, len(orders), nil
}
