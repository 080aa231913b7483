package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// Product change actions.
const (
	ProductCreated = "created"
	ProductUpdated = "updated"
	ProductDeleted = "deleted"
)

// ProductChangedEvent is emitted when products are created, edited or removed.
type ProductChangedEvent struct {
	ProductIDs []string  `json:"product_ids"`
	Action     string    `json:"action"`
	ChangedAt  time.Time `json:"changed_at"`
}

// ProductChangedV1 is the typed event definition for product changes.
// Subject: events.catalog.v1.product-changed
var ProductChangedV1 = helper.EventDefinition[ProductChangedEvent](
	"catalog", "ProductChanged", "v1",
)

// StockAdjustedEvent is emitted after a manual stock adjustment.
type StockAdjustedEvent struct {
	ProductID  string    `json:"product_id"`
	Delta      int       `json:"delta"`
	NewStock   int       `json:"new_stock"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

// StockAdjustedV1 is the typed event definition for stock adjustments.
// Subject: events.catalog.v1.stock-adjusted
var StockAdjustedV1 = helper.EventDefinition[StockAdjustedEvent](
	"catalog", "StockAdjusted", "v1",
)
