package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/VinniciusRRosario/PMCsoftware/events"
	"github.com/VinniciusRRosario/PMCsoftware/modules/cache"
	catalogmod "github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	ordermod "github.com/VinniciusRRosario/PMCsoftware/modules/order"
)

// GetDashboardRequest is the get-dashboard request.
type GetDashboardRequest struct{}

// Module serves dashboard snapshots and keeps their cache fresh by
// listening to ledger and catalog events.
type Module struct {
	orders      OrderStats
	stock       StockStats
	cachePlugin *cache.PluginModule
	service     *Service
	threshold   int
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
)

// NewModule creates the dashboard module. Products below threshold count
// as low stock.
func NewModule(threshold int, logger types.Logger) *Module {
	return &Module{
		threshold: threshold,
		logger:    logger.WithModule("dashboard"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "dashboard"
}

// Dependencies returns the modules whose services the dashboard reads.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "order"}
}

// SetDependencyServiceContainer wires the catalog and order adapters.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.stock = catalogmod.NewCatalogAdapter(container)
	case "order":
		m.orders = ordermod.NewOrderAdapter(container)
	}
}

// SetPlugin receives the optional cache plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	cachePlugin, ok := plugin.(*cache.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for cache",
			"alias", alias,
			"expected", "*cache.PluginModule")
		return
	}
	m.cachePlugin = cachePlugin
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-dashboard", json.Unmarshal, json.Marshal, m.getDashboard,
	); err != nil {
		return fmt.Errorf("failed to register get-dashboard service: %w", err)
	}
	m.logger.Info("Registered services", "services", "get-dashboard")
	return nil
}

// RegisterEventConsumers invalidates the snapshot on every change that
// moves a dashboard figure.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderCreatedV1, m.handleOrderCreated, m); err != nil {
		return fmt.Errorf("failed to register OrderCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductionConfirmedV1, m.handleProductionConfirmed, m); err != nil {
		return fmt.Errorf("failed to register ProductionConfirmed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderFinishedV1, m.handleOrderFinished, m); err != nil {
		return fmt.Errorf("failed to register OrderFinished consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrdersDeletedV1, m.handleOrdersDeleted, m); err != nil {
		return fmt.Errorf("failed to register OrdersDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductChangedV1, m.handleProductChanged, m); err != nil {
		return fmt.Errorf("failed to register ProductChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.StockAdjustedV1, m.handleStockAdjusted, m); err != nil {
		return fmt.Errorf("failed to register StockAdjusted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "OrderCreated, ProductionConfirmed, OrderFinished, OrdersDeleted, ProductChanged, StockAdjusted")
	return nil
}

// Start builds the service.
func (m *Module) Start(_ context.Context) error {
	if m.orders == nil || m.stock == nil {
		return fmt.Errorf("catalog and order dependencies not set")
	}

	var cacheSvc cache.CacheService
	if m.cachePlugin != nil {
		cacheSvc = m.cachePlugin.Port()
	}
	if cacheSvc == nil {
		m.logger.Info("Cache plugin not configured, snapshots are computed on every request")
	}

	m.service = NewService(m.orders, m.stock, cacheSvc, m.threshold, m.logger)
	m.logger.Info("Module started", "low_stock_threshold", m.service.threshold)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

func (m *Module) getDashboard(ctx context.Context, _ GetDashboardRequest, _ *mono.Msg) (Snapshot, error) {
	return m.service.Snapshot(ctx)
}

func (m *Module) invalidate(ctx context.Context, reason string) error {
	if m.service == nil {
		return nil
	}
	m.service.Invalidate(ctx)
	m.logger.Debug("Dashboard snapshot invalidated", "reason", reason)
	return nil
}

func (m *Module) handleOrderCreated(ctx context.Context, _ events.OrderCreatedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "order created")
}

func (m *Module) handleProductionConfirmed(ctx context.Context, _ events.ProductionConfirmedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "production confirmed")
}

func (m *Module) handleOrderFinished(ctx context.Context, _ events.OrderFinishedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "order finished")
}

func (m *Module) handleOrdersDeleted(ctx context.Context, _ events.OrdersDeletedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "orders deleted")
}

func (m *Module) handleProductChanged(ctx context.Context, _ events.ProductChangedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "product changed")
}

func (m *Module) handleStockAdjusted(ctx context.Context, _ events.StockAdjustedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "stock adjusted")
}
