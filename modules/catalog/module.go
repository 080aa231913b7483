package catalog

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

// Module exposes the product catalog as request-reply services.
type Module struct {
	database *database.PluginModule
	service  *CatalogServiceImpl
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

// NewModule creates the catalog module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger.WithModule("catalog"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
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
		events.ProductChangedV1.ToBase(),
		events.StockAdjustedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-categories", json.Unmarshal, json.Marshal, m.listCategories,
	); err != nil {
		return fmt.Errorf("failed to register list-categories service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-product", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-product", json.Unmarshal, json.Marshal, m.updateProduct,
	); err != nil {
		return fmt.Errorf("failed to register update-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-product", json.Unmarshal, json.Marshal, m.deleteProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-products", json.Unmarshal, json.Marshal, m.deleteProducts,
	); err != nil {
		return fmt.Errorf("failed to register delete-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "adjust-stock", json.Unmarshal, json.Marshal, m.adjustStock,
	); err != nil {
		return fmt.Errorf("failed to register adjust-stock service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "count-low-stock", json.Unmarshal, json.Marshal, m.countLowStock,
	); err != nil {
		return fmt.Errorf("failed to register count-low-stock service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "list-products, list-categories, get-product, create-product, update-product, delete-product, delete-products, adjust-stock, count-low-stock")
	return nil
}

// Start builds the service on top of the shared connection.
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

	m.service = NewCatalogService(NewRepository(db), m.eventBus, m.logger)
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
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

func (m *Module) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	return m.service.List(ctx, req)
}

func (m *Module) listCategories(ctx context.Context, req ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	return m.service.Categories(ctx, req)
}

func (m *Module) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	return m.service.Get(ctx, req)
}

func (m *Module) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	return m.service.Create(ctx, req)
}

func (m *Module) updateProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	return m.service.Update(ctx, req)
}

func (m *Module) deleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductsResponse, error) {
	return m.service.Delete(ctx, req)
}

func (m *Module) deleteProducts(ctx context.Context, req DeleteProductsRequest, _ *mono.Msg) (DeleteProductsResponse, error) {
	return m.service.DeleteMany(ctx, req)
}

func (m *Module) adjustStock(ctx context.Context, req AdjustStockRequest, _ *mono.Msg) (AdjustStockResponse, error) {
	return m.service.AdjustStock(ctx, req)
}

func (m *Module) countLowStock(ctx context.Context, req CountLowStockRequest, _ *mono.Msg) (CountLowStockResponse, error) {
	return m.service.CountLowStock(ctx, req)
}
