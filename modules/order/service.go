package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	clientdomain "github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// Validation errors (exported for error checking via errors.Is).
var (
	ErrIDRequired           = errs.New(errs.ErrInvalidInput, "id is required")
	ErrIDInvalid            = errs.New(errs.ErrInvalidInput, "id is not a valid UUID")
	ErrIDsRequired          = errs.New(errs.ErrInvalidInput, "at least one order id is required")
	ErrEmptyCart            = errs.New(errs.ErrInvalidInput, "order must have at least one item")
	ErrClientRequired       = errs.New(errs.ErrInvalidInput, "either client_id or new_client is required")
	ErrDeadlineRequired     = errs.New(errs.ErrInvalidInput, "delivery deadline is required")
	ErrInvalidDeadline      = errs.New(errs.ErrInvalidInput, "delivery deadline must be a date (YYYY-MM-DD)")
	ErrInvalidQuantity      = errs.New(errs.ErrInvalidInput, "quantity must be a positive integer")
	ErrInvalidView          = errs.New(errs.ErrInvalidInput, "view must be active, history or all")
	ErrInvalidStatus        = errs.New(errs.ErrInvalidInput, "unknown order status")
	ErrConfirmationRequired = errs.New(errs.ErrConflict, "finishing an order must be explicitly confirmed")
)

// codeAlphabet leaves out characters that are easy to misread.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 8
	codeAttempts = 3
)

// LedgerRepository is the storage used by the ledger service.
type LedgerRepository interface {
	Create(ctx context.Context, draft Draft) error
	Products(ctx context.Context, ids []string) (map[string]catalog.Product, error)
	FindDetail(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, statuses []domain.Status) ([]domain.Order, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	ConfirmProduction(ctx context.Context, itemID string, quantity int, allowOverflow bool) (*Confirmation, error)
	ForceFinish(ctx context.Context, orderID string) ([]events.StockDelta, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
	CompletedRevenue(ctx context.Context) (decimal.Decimal, int, error)
}

// LedgerService defines the order ledger and fulfillment operations.
type LedgerService interface {
	Create(ctx context.Context, req CreateOrderRequest) (OrderResponse, error)
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)
	Get(ctx context.Context, req GetOrderRequest) (OrderResponse, error)
	List(ctx context.Context, req ListOrdersRequest) (ListOrdersResponse, error)
	DeleteMany(ctx context.Context, req DeleteOrdersRequest) (DeleteOrdersResponse, error)
	ConfirmProduction(ctx context.Context, req ConfirmProductionRequest) (ConfirmProductionResponse, error)
	ForceFinish(ctx context.Context, req FinishOrderRequest) (FinishOrderResponse, error)
	CountOrders(ctx context.Context, req CountOrdersRequest) (CountOrdersResponse, error)
	CompletedRevenue(ctx context.Context, req RevenueRequest) (RevenueResponse, error)
}

// LedgerServiceImpl implements LedgerService.
type LedgerServiceImpl struct {
	repo     LedgerRepository
	newCode  func() string
	eventBus mono.EventBus
	logger   types.Logger
}

var _ LedgerService = (*LedgerServiceImpl)(nil)

// NewLedgerService creates the ledger service. eventBus may be nil.
func NewLedgerService(repo LedgerRepository, eventBus mono.EventBus, logger types.Logger) (*LedgerServiceImpl, error) {
	newCode, err := nanoid.CustomASCII(codeAlphabet, codeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create code generator: %w", err)
	}
	return &LedgerServiceImpl{
		repo:     repo,
		newCode:  newCode,
		eventBus: eventBus,
		logger:   logger,
	}, nil
}

// Create validates and persists an order. Items start undelivered, the
// order starts pending and stock is left untouched.
func (s *LedgerServiceImpl) Create(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	discountType, err := validateCart(req.Items, req.DiscountType, req.DiscountValue)
	if err != nil {
		return OrderResponse{}, err
	}
	deadline, err := parseDeadline(req.DeliveryDeadline)
	if err != nil {
		return OrderResponse{}, err
	}

	now := time.Now()
	var newClient *clientdomain.Client
	switch {
	case req.NewClient != nil:
		newClient = &clientdomain.Client{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(req.NewClient.Name),
			CompanyName: req.NewClient.CompanyName,
			Phone:       strings.TrimSpace(req.NewClient.Phone),
			Address:     req.NewClient.Address,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := newClient.Validate(); err != nil {
			return OrderResponse{}, errs.Invalid(err)
		}
	case req.ClientID != "":
		if _, err := uuid.Parse(req.ClientID); err != nil {
			return OrderResponse{}, ErrUnknownClient
		}
	default:
		return OrderResponse{}, ErrClientRequired
	}

	o := &domain.Order{
		ID:               uuid.New().String(),
		ClientID:         req.ClientID,
		DeliveryDeadline: deadline,
		Status:           domain.StatusPending,
		DiscountType:     discountType,
		DiscountValue:    req.DiscountValue,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	draft := Draft{
		Order:     o,
		NewClient: newClient,
		Lines:     req.Items,
		NewID:     uuid.NewString,
	}

	for attempt := 1; ; attempt++ {
		o.Code = s.newCode()
		err = s.repo.Create(ctx, draft)
		if !errors.Is(err, ErrDuplicateCode) || attempt == codeAttempts {
			break
		}
	}
	if err != nil {
		return OrderResponse{}, err
	}

	summary := o.Summary()
	if s.eventBus != nil {
		event := events.OrderCreatedEvent{
			OrderID:   o.ID,
			Code:      o.Code,
			ClientID:  o.ClientID,
			ItemCount: len(o.Items),
			Total:     summary.Total.StringFixed(2),
			CreatedAt: now,
		}
		if err := events.OrderCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish OrderCreated event", "order_id", o.ID, "error", err)
		}
	}

	s.logger.Info("Order created", "order_id", o.ID, "code", o.Code, "items", len(o.Items), "total", summary.Total.StringFixed(2))

	detail, err := s.repo.FindDetail(ctx, o.ID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(detail, true), nil
}

// Quote prices a cart without saving anything.
func (s *LedgerServiceImpl) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	discountType, err := validateCart(req.Items, req.DiscountType, req.DiscountValue)
	if err != nil {
		return QuoteResponse{}, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.repo.Products(ctx, ids)
	if err != nil {
		return QuoteResponse{}, err
	}

	resp := QuoteResponse{Lines: make([]QuoteLine, 0, len(req.Items))}
	lines := make([]finance.Line, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return QuoteResponse{}, ErrUnknownProduct
		}
		price := product.UnitPrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		line := finance.Line{Quantity: item.Quantity, UnitPrice: price}
		lines = append(lines, line)
		resp.Lines = append(resp.Lines, QuoteLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			LineTotal:   finance.Subtotal([]finance.Line{line}).Round(2),
		})
	}
	resp.Summary = finance.Summarize(lines, discountType, req.DiscountValue)
	return resp, nil
}

// Get returns an order with its items and financial summary.
func (s *LedgerServiceImpl) Get(ctx context.Context, req GetOrderRequest) (OrderResponse, error) {
	if err := validateID(req.ID); err != nil {
		return OrderResponse{}, err
	}
	o, err := s.repo.FindDetail(ctx, req.ID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(o, true), nil
}

// List returns the orders of a view ordered by delivery deadline.
func (s *LedgerServiceImpl) List(ctx context.Context, req ListOrdersRequest) (ListOrdersResponse, error) {
	var statuses []domain.Status
	switch req.View {
	case "", ViewActive:
		statuses = []domain.Status{domain.StatusPending, domain.StatusInProgress}
	case ViewHistory:
		statuses = []domain.Status{domain.StatusCompleted}
	case ViewAll:
	default:
		return ListOrdersResponse{}, ErrInvalidView
	}

	orders, err := s.repo.List(ctx, statuses)
	if err != nil {
		return ListOrdersResponse{}, err
	}

	resp := ListOrdersResponse{
		Orders: make([]OrderResponse, 0, len(orders)),
		Total:  len(orders),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i], false))
	}
	return resp, nil
}

// DeleteMany removes orders together with their items.
func (s *LedgerServiceImpl) DeleteMany(ctx context.Context, req DeleteOrdersRequest) (DeleteOrdersResponse, error) {
	if len(req.IDs) == 0 {
		return DeleteOrdersResponse{}, ErrIDsRequired
	}
	for _, id := range req.IDs {
		if err := validateID(id); err != nil {
			return DeleteOrdersResponse{}, err
		}
	}

	deleted, err := s.repo.DeleteMany(ctx, req.IDs)
	if err != nil {
		return DeleteOrdersResponse{}, err
	}

	if s.eventBus != nil {
		event := events.OrdersDeletedEvent{OrderIDs: req.IDs, DeletedAt: time.Now()}
		if err := events.OrdersDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish OrdersDeleted event", "error", err)
		}
	}

	s.logger.Info("Orders deleted", "requested", len(req.IDs), "deleted", deleted)
	return DeleteOrdersResponse{Deleted: deleted}, nil
}

// CountOrders counts orders in one status.
func (s *LedgerServiceImpl) CountOrders(ctx context.Context, req CountOrdersRequest) (CountOrdersResponse, error) {
	if !req.Status.Valid() {
		return CountOrdersResponse{}, ErrInvalidStatus
	}
	count, err := s.repo.CountByStatus(ctx, req.Status)
	if err != nil {
		return CountOrdersResponse{}, err
	}
	return CountOrdersResponse{Status: req.Status, Count: count}, nil
}

// CompletedRevenue sums the totals of concluded orders.
func (s *LedgerServiceImpl) CompletedRevenue(ctx context.Context, _ RevenueRequest) (RevenueResponse, error) {
	revenue, orders, err := s.repo.CompletedRevenue(ctx)
	if err != nil {
		return RevenueResponse{}, err
	}
	return RevenueResponse{Revenue: revenue.Round(2), Orders: orders}, nil
}

// validateCart checks the cart lines and discount policy and returns the
// effective discount type, percent when unset.
func validateCart(items []CartLine, discountType finance.DiscountType, value decimal.Decimal) (finance.DiscountType, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	for _, item := range items {
		if item.ProductID == "" {
			return "", ErrUnknownProduct
		}
		if item.Quantity <= 0 {
			return "", ErrInvalidQuantity
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return "", errs.Invalid(catalog.ErrNegativePrice)
		}
	}

	if discountType == "" {
		discountType = finance.DiscountPercent
	}
	if err := finance.ValidateDiscount(discountType, value); err != nil {
		return "", errs.Invalid(err)
	}
	return discountType, nil
}

func parseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrDeadlineRequired
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDeadline
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
