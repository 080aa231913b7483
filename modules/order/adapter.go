package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
)

// OrderPort is the ledger API for other modules.
type OrderPort interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error)
	QuoteOrder(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error)
	GetOrder(ctx context.Context, id string) (*OrderResponse, error)
	ListOrders(ctx context.Context, view string) (*ListOrdersResponse, error)
	DeleteOrders(ctx context.Context, ids []string) (*DeleteOrdersResponse, error)
	ConfirmProduction(ctx context.Context, req *ConfirmProductionRequest) (*ConfirmProductionResponse, error)
	FinishOrder(ctx context.Context, req *FinishOrderRequest) (*FinishOrderResponse, error)
	CountOrders(ctx context.Context, status domain.Status) (*CountOrdersResponse, error)
	CompletedRevenue(ctx context.Context) (*RevenueResponse, error)
}

type orderAdapter struct {
	container mono.ServiceContainer
}

// NewOrderAdapter creates an OrderPort for the order module's container.
func NewOrderAdapter(container mono.ServiceContainer) OrderPort {
	if container == nil {
		panic("order adapter requires non-nil ServiceContainer")
	}
	return &orderAdapter{container: container}
}

func (a *orderAdapter) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := callService(ctx, a.container, "create-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) QuoteOrder(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := callService(ctx, a.container, "quote-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	var resp OrderResponse
	if err := callService(ctx, a.container, "get-order", &GetOrderRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) ListOrders(ctx context.Context, view string) (*ListOrdersResponse, error) {
	var resp ListOrdersResponse
	if err := callService(ctx, a.container, "list-orders", &ListOrdersRequest{View: view}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) DeleteOrders(ctx context.Context, ids []string) (*DeleteOrdersResponse, error) {
	var resp DeleteOrdersResponse
	if err := callService(ctx, a.container, "delete-orders", &DeleteOrdersRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) ConfirmProduction(ctx context.Context, req *ConfirmProductionRequest) (*ConfirmProductionResponse, error) {
	var resp ConfirmProductionResponse
	if err := callService(ctx, a.container, "confirm-production", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) FinishOrder(ctx context.Context, req *FinishOrderRequest) (*FinishOrderResponse, error) {
	var resp FinishOrderResponse
	if err := callService(ctx, a.container, "finish-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) CountOrders(ctx context.Context, status domain.Status) (*CountOrdersResponse, error) {
	var resp CountOrdersResponse
	if err := callService(ctx, a.container, "count-orders", &CountOrdersRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) CompletedRevenue(ctx context.Context) (*RevenueResponse, error) {
	var resp RevenueResponse
	if err := callService(ctx, a.container, "completed-revenue", &RevenueRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, errs.FromRemote(err))
	}
	return nil
}
