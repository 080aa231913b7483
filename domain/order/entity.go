package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
)

// Status represents where an order is in its fulfillment lifecycle.
type Status string

const (
	StatusPending    Status = "pendente"
	StatusInProgress Status = "em_andamento"
	StatusCompleted  Status = "concluido"
)

// ErrInvalidTransition is returned when a status change would move backward.
var ErrInvalidTransition = errs.New(errs.ErrConflict, "invalid status transition")

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusCompleted:  2,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next goes forward.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Order is a client's request for produced goods.
type Order struct {
	ID               string               `gorm:"primaryKey;size:36" json:"id"`
	Code             string               `gorm:"size:16;uniqueIndex;not null" json:"code"`
	ClientID         string               `gorm:"size:36;not null;index" json:"client_id"`
	Client           *client.Client       `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	DeliveryDeadline time.Time            `gorm:"not null;index" json:"delivery_deadline"`
	Status           Status               `gorm:"size:20;not null;index" json:"status"`
	DiscountType     finance.DiscountType `gorm:"size:10;not null" json:"discount_type"`
	DiscountValue    decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	Items            []Item               `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// TableName returns the table name for Order.
func (Order) TableName() string {
	return "orders"
}

// Lines returns the priced quantities of the order's items.
func (o *Order) Lines() []finance.Line {
	lines := make([]finance.Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, finance.Line{Quantity: it.QtyOrdered, UnitPrice: it.UnitPrice})
	}
	return lines
}

// Summary computes the order's subtotal, discount and total.
func (o *Order) Summary() finance.Summary {
	return finance.Summarize(o.Lines(), o.DiscountType, o.DiscountValue)
}

// Quantities returns the summed ordered and delivered units.
func (o *Order) Quantities() (ordered, delivered int) {
	for _, it := range o.Items {
		ordered += it.QtyOrdered
		delivered += it.QtyDelivered
	}
	return ordered, delivered
}

// Completion returns the delivered share of the order as a percentage.
func (o *Order) Completion() int {
	return finance.Completion(o.Quantities())
}

// Item is one product line of an order.
type Item struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id"`
	OrderID      string           `gorm:"size:36;not null;index" json:"order_id"`
	Order        *Order           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID    string           `gorm:"size:36;not null;index" json:"product_id"`
	Position     int              `gorm:"not null;default:0" json:"position"`
	Product      *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	QtyOrdered   int              `gorm:"not null" json:"qty_ordered"`
	QtyDelivered int              `gorm:"not null" json:"qty_delivered"`
	UnitPrice    decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName returns the table name for Item.
func (Item) TableName() string {
	return "order_items"
}

// Remaining is the undelivered quantity, never negative.
func (it *Item) Remaining() int {
	return max(it.QtyOrdered-it.QtyDelivered, 0)
}

// Excess is the quantity delivered beyond what was ordered.
func (it *Item) Excess() int {
	return max(it.QtyDelivered-it.QtyOrdered, 0)
}

// Progress is the item's delivered share as a percentage capped at 100.
func (it *Item) Progress() int {
	return finance.Completion(it.QtyOrdered, it.QtyDelivered)
}

// Overflows reports whether delivering quantity more units exceeds the order.
func (it *Item) Overflows(quantity int) bool {
	return it.QtyDelivered+quantity > it.QtyOrdered
}
