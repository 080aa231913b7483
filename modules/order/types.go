package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// Order list views.
const (
	ViewActive  = "active"
	ViewHistory = "history"
	ViewAll     = "all"
)

// CartLine is one product in a cart. A nil UnitPrice takes the current
// catalog price.
type CartLine struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// NewClientInput registers a client together with the order.
type NewClientInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name,omitempty"`
	Address     string `json:"address,omitempty"`
}

// CreateOrderRequest is the create-order request. Exactly one of ClientID
// and NewClient selects the client. DeliveryDeadline is a date
// (2006-01-02) or an RFC 3339 timestamp.
type CreateOrderRequest struct {
	ClientID         string               `json:"client_id,omitempty"`
	NewClient        *NewClientInput      `json:"new_client,omitempty"`
	DeliveryDeadline string               `json:"delivery_deadline"`
	DiscountType     finance.DiscountType `json:"discount_type,omitempty"`
	DiscountValue    decimal.Decimal      `json:"discount_value"`
	Items            []CartLine           `json:"items"`
}

// OrderItemResponse is an order line with its fulfillment progress.
type OrderItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductStock int             `json:"product_stock"`
	QtyOrdered   int             `json:"qty_ordered"`
	QtyDelivered int             `json:"qty_delivered"`
	Remaining    int             `json:"remaining"`
	Excess       int             `json:"excess"`
	Progress     int             `json:"progress"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderResponse is an order with its client, totals and completion.
type OrderResponse struct {
	ID               string               `json:"id"`
	Code             string               `json:"code"`
	ClientID         string               `json:"client_id"`
	ClientName       string               `json:"client_name"`
	DeliveryDeadline time.Time            `json:"delivery_deadline"`
	Status           domain.Status        `json:"status"`
	DiscountType     finance.DiscountType `json:"discount_type"`
	DiscountValue    decimal.Decimal      `json:"discount_value"`
	Summary          finance.Summary      `json:"summary"`
	QtyOrdered       int                  `json:"qty_ordered"`
	QtyDelivered     int                  `json:"qty_delivered"`
	Completion       int                  `json:"completion"`
	Items            []OrderItemResponse  `json:"items,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// GetOrderRequest identifies an order.
type GetOrderRequest struct {
	ID string `json:"id"`
}

// ListOrdersRequest selects a view: active (default), history or all.
type ListOrdersRequest struct {
	View string `json:"view,omitempty"`
}

// ListOrdersResponse is the list-orders result.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// QuoteRequest prices a cart without saving it.
type QuoteRequest struct {
	Items         []CartLine           `json:"items"`
	DiscountType  finance.DiscountType `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
}

// QuoteLine is a priced cart line.
type QuoteLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuoteResponse is the priced cart.
type QuoteResponse struct {
	Lines   []QuoteLine     `json:"lines"`
	Summary finance.Summary `json:"summary"`
}

// DeleteOrdersRequest lists the orders to delete.
type DeleteOrdersRequest struct {
	IDs []string `json:"ids"`
}

// DeleteOrdersResponse reports how many orders were deleted.
type DeleteOrdersResponse struct {
	Deleted int64 `json:"deleted"`
}

// ConfirmProductionRequest records produced units against an order item.
// AllowOverflow must be set to deliver more than was ordered.
type ConfirmProductionRequest struct {
	ItemID        string `json:"item_id"`
	Quantity      int    `json:"quantity"`
	AllowOverflow bool   `json:"allow_overflow"`
}

// ConfirmProductionResponse is the item and order state after a confirmation.
type ConfirmProductionResponse struct {
	OrderID      string        `json:"order_id"`
	ItemID       string        `json:"item_id"`
	ProductID    string        `json:"product_id"`
	QtyOrdered   int           `json:"qty_ordered"`
	QtyDelivered int           `json:"qty_delivered"`
	Remaining    int           `json:"remaining"`
	Excess       int           `json:"excess"`
	ProductStock int           `json:"product_stock"`
	Status       domain.Status `json:"status"`
}

// FinishOrderRequest force-finishes an order. Confirm must be true.
type FinishOrderRequest struct {
	ID      string `json:"id"`
	Confirm bool   `json:"confirm"`
}

// FinishOrderResponse lists the stock debits applied while finishing.
type FinishOrderResponse struct {
	OrderID string              `json:"order_id"`
	Status  domain.Status       `json:"status"`
	Debits  []events.StockDelta `json:"debits"`
}

// CountOrdersRequest counts orders in one status.
type CountOrdersRequest struct {
	Status domain.Status `json:"status"`
}

// CountOrdersResponse is the count-orders result.
type CountOrdersResponse struct {
	Status domain.Status `json:"status"`
	Count  int64         `json:"count"`
}

// RevenueRequest is the completed-revenue request.
type RevenueRequest struct{}

// RevenueResponse is the summed total of concluded orders.
type RevenueResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

func toOrderResponse(o *domain.Order, withItems bool) OrderResponse {
	ordered, delivered := o.Quantities()
	resp := OrderResponse{
		ID:               o.ID,
		Code:             o.Code,
		ClientID:         o.ClientID,
		DeliveryDeadline: o.DeliveryDeadline,
		Status:           o.Status,
		DiscountType:     o.DiscountType,
		DiscountValue:    o.DiscountValue,
		Summary:          o.Summary(),
		QtyOrdered:       ordered,
		QtyDelivered:     delivered,
		Completion:       o.Completion(),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if o.Client != nil {
		resp.ClientName = o.Client.Name
	}
	if !withItems {
		return resp
	}

	resp.Items = make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		item := OrderItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			QtyOrdered:   it.QtyOrdered,
			QtyDelivered: it.QtyDelivered,
			Remaining:    it.Remaining(),
			Excess:       it.Excess(),
			Progress:     it.Progress(),
			UnitPrice:    it.UnitPrice,
			LineTotal:    finance.Subtotal([]finance.Line{{Quantity: it.QtyOrdered, UnitPrice: it.UnitPrice}}).Round(2),
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
			item.ProductStock = it.Product.CurrentStock
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
