package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderCreatedEvent is emitted once an order and its items are persisted.
type OrderCreatedEvent struct {
	OrderID   string    `json:"order_id"`
	Code      string    `json:"code"`
	ClientID  string    `json:"client_id"`
	ItemCount int       `json:"item_count"`
	Total     string    `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderCreatedV1 is the typed event definition for order creation.
// Subject: events.order.v1.order-created
var OrderCreatedV1 = helper.EventDefinition[OrderCreatedEvent](
	"order", "OrderCreated", "v1",
)

// ProductionConfirmedEvent is emitted when produced units are recorded
// against an order item.
type ProductionConfirmedEvent struct {
	OrderID      string    `json:"order_id"`
	ItemID       string    `json:"item_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	QtyDelivered int       `json:"qty_delivered"`
	QtyOrdered   int       `json:"qty_ordered"`
	Status       string    `json:"status"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// ProductionConfirmedV1 is the typed event definition for production confirmations.
// Subject: events.order.v1.production-confirmed
var ProductionConfirmedV1 = helper.EventDefinition[ProductionConfirmedEvent](
	"order", "ProductionConfirmed", "v1",
)

// StockDelta is a stock debit applied while finishing an order.
type StockDelta struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderFinishedEvent is emitted when an order is force-finished.
type OrderFinishedEvent struct {
	OrderID    string       `json:"order_id"`
	Debits     []StockDelta `json:"debits"`
	FinishedAt time.Time    `json:"finished_at"`
}

// OrderFinishedV1 is the typed event definition for finished orders.
// Subject: events.order.v1.order-finished
var OrderFinishedV1 = helper.EventDefinition[OrderFinishedEvent](
	"order", "OrderFinished", "v1",
)

// OrdersDeletedEvent is emitted after a bulk order deletion.
type OrdersDeletedEvent struct {
	OrderIDs  []string  `json:"order_ids"`
	DeletedAt time.Time `json:"deleted_at"`
}

// OrdersDeletedV1 is the typed event definition for order deletions.
// Subject: events.order.v1.orders-deleted
var OrdersDeletedV1 = helper.EventDefinition[OrdersDeletedEvent](
	"order", "OrdersDeleted", "v1",
)
