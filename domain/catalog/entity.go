package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level below which a product counts as low.
const LowStockThreshold = 10

// Direction tells a stock adjustment whether to add or remove units.
type Direction string

const (
	DirectionAdd    Direction = "add"
	DirectionRemove Direction = "remove"
)

// Validation errors for catalog input.
var (
	ErrNameRequired     = errors.New("product name is required")
	ErrNegativePrice    = errors.New("unit price must not be negative")
	ErrInvalidAmount    = errors.New("stock amount must be a positive integer")
	ErrInvalidDirection = errors.New("stock direction must be add or remove")
)

// Product is a sellable item and its on-hand stock.
type Product struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	Name         string          `gorm:"size:200;not null;index" json:"name"`
	Category     string          `gorm:"size:100;index" json:"category"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CurrentStock int             `gorm:"not null;default:0" json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// Validate checks the editable fields of a product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Delta converts an amount and direction into a signed stock change.
func Delta(amount int, dir Direction) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	switch dir {
	case DirectionAdd:
		return amount, nil
	case DirectionRemove:
		return -amount, nil
	default:
		return 0, ErrInvalidDirection
	}
}
