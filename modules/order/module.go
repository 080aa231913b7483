package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/VinniciusRRosario/PMCsoftware/events"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Module exposes the order ledger and fulfillment engine.
type Module struct {
	database *database.PluginModule
	service  *LedgerServiceImpl
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the order module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger.WithModule("order"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "order"
}

// SetPlugin receives the database plugin from the framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	db, ok := plugin.(*database.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for database",
			"alias", alias,
			"expected", "*database.PluginModule")
		return
	}
	m.database = db
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderCreatedV1.ToBase(),
		events.ProductionConfirmedV1.ToBase(),
		events.OrderFinishedV1.ToBase(),
		events.OrdersDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-order", json.Unmarshal, json.Marshal, m.createOrder,
	); err != nil {
		return fmt.Errorf("failed to register create-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "quote-order", json.Unmarshal, json.Marshal, m.quoteOrder,
	); err != nil {
		return fmt.Errorf("failed to register quote-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-order", json.Unmarshal, json.Marshal, m.getOrder,
	); err != nil {
		return fmt.Errorf("failed to register get-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-orders", json.Unmarshal, json.Marshal, m.listOrders,
	); err != nil {
		return fmt.Errorf("failed to register list-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-orders", json.Unmarshal, json.Marshal, m.deleteOrders,
	); err != nil {
		return fmt.Errorf("failed to register delete-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "confirm-production", json.Unmarshal, json.Marshal, m.confirmProduction,
	); err != nil {
		return fmt.Errorf("failed to register confirm-production service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "finish-order", json.Unmarshal, json.Marshal, m.finishOrder,
	); err != nil {
		return fmt.Errorf("failed to register finish-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "count-orders", json.Unmarshal, json.Marshal, m.countOrders,
	); err != nil {
		return fmt.Errorf("failed to register count-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "completed-revenue", json.Unmarshal, json.Marshal, m.completedRevenue,
	); err != nil {
		return fmt.Errorf("failed to register completed-revenue service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "create-order, quote-order, get-order, list-orders, delete-orders, confirm-production, finish-order, count-orders, completed-revenue")
	return nil
}

// Start builds the ledger service on top of the shared connection.
func (m *Module) Start(_ context.Context) error {
	if m.database == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	db := m.database.DB()
	if db == nil {
		return fmt.Errorf("database plugin not started")
	}
	if m.eventBus == nil {
		m.logger.Warn("EventBus not set, events will not be published")
	}

	service, err := NewLedgerService(NewRepository(db), m.eventBus, m.logger)
	if err != nil {
		return err
	}
	m.service = service
	m.logger.Info("Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health reports whether the module is ready to serve.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

func (m *Module) createOrder(ctx context.Context, req CreateOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	return m.service.Create(ctx, req)
}

func (m *Module) quoteOrder(ctx context.Context, req QuoteRequest, _ *mono.Msg) (QuoteResponse, error) {
	return m.service.Quote(ctx, req)
}

func (m *Module) getOrder(ctx context.Context, req GetOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	return m.service.Get(ctx, req)
}

func (m *Module) listOrders(ctx context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	return m.service.List(ctx, req)
}

func (m *Module) deleteOrders(ctx context.Context, req DeleteOrdersRequest, _ *mono.Msg) (DeleteOrdersResponse, error) {
	return m.service.DeleteMany(ctx, req)
}

func (m *Module) confirmProduction(ctx context.Context, req ConfirmProductionRequest, _ *mono.Msg) (ConfirmProductionResponse, error) {
	return m.service.ConfirmProduction(ctx, req)
}

func (m *Module) finishOrder(ctx context.Context, req FinishOrderRequest, _ *mono.Msg) (FinishOrderResponse, error) {
	return m.service.ForceFinish(ctx, req)
}

func (m *Module) countOrders(ctx context.Context, req CountOrdersRequest, _ *mono.Msg) (CountOrdersResponse, error) {
	return m.service.CountOrders(ctx, req)
}

func (m *Module) completedRevenue(ctx context.Context, req RevenueRequest, _ *mono.Msg) (RevenueResponse, error) {
	return m.service.CompletedRevenue(ctx, req)
}
