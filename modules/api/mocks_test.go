package api

import (
	"context"
	"errors"

	"github.com/go-monolith/mono/pkg/types"

	orderdomain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	userdomain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
	"github.com/VinniciusRRosario/PMCsoftware/modules/auth"
	"github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/modules/client"
	"github.com/VinniciusRRosario/PMCsoftware/modules/dashboard"
	"github.com/VinniciusRRosario/PMCsoftware/modules/order"
)

var errNotImplemented = errors.New("not implemented")

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	signInFunc  func(ctx context.Context, email, password string) (*auth.SignInResponse, error)
	sessionFunc func(ctx context.Context, token string) (*userdomain.Session, error)
	refreshFunc func(ctx context.Context, refreshToken string) (*auth.SignInResponse, error)
	signOutFunc func(ctx context.Context, token, refreshToken string) error
}

func (m *mockAuthPort) SignIn(ctx context.Context, email, password string) (*auth.SignInResponse, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Session(ctx context.Context, token string) (*userdomain.Session, error) {
	if m.sessionFunc != nil {
		return m.sessionFunc(ctx, token)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, refreshToken string) (*auth.SignInResponse, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) SignOut(ctx context.Context, token, refreshToken string) error {
	if m.signOutFunc != nil {
		return m.signOutFunc(ctx, token, refreshToken)
	}
	return errNotImplemented
}

// mockCatalogPort implements catalog.CatalogPort for testing
type mockCatalogPort struct {
	listProductsFunc   func(ctx context.Context, category string) (*catalog.ListProductsResponse, error)
	listCategoriesFunc func(ctx context.Context) (*catalog.ListCategoriesResponse, error)
	getProductFunc     func(ctx context.Context, id string) (*catalog.ProductResponse, error)
	createProductFunc  func(ctx context.Context, req *catalog.CreateProductRequest) (*catalog.ProductResponse, error)
	deleteProductFunc  func(ctx context.Context, id string) error
	adjustStockFunc    func(ctx context.Context, req *catalog.AdjustStockRequest) (*catalog.AdjustStockResponse, error)
}

func (m *mockCatalogPort) ListProducts(ctx context.Context, category string) (*catalog.ListProductsResponse, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, category)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) ListCategories(ctx context.Context) (*catalog.ListCategoriesResponse, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) GetProduct(ctx context.Context, id string) (*catalog.ProductResponse, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) CreateProduct(ctx context.Context, req *catalog.CreateProductRequest) (*catalog.ProductResponse, error) {
	if m.createProductFunc != nil {
		return m.createProductFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) UpdateProduct(_ context.Context, _ *catalog.UpdateProductRequest) (*catalog.ProductResponse, error) {
	return nil, errNotImplemented
}

func (m *mockCatalogPort) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFunc != nil {
		return m.deleteProductFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *mockCatalogPort) DeleteProducts(_ context.Context, _ []string) (*catalog.DeleteProductsResponse, error) {
	return nil, errNotImplemented
}

func (m *mockCatalogPort) AdjustStock(ctx context.Context, req *catalog.AdjustStockRequest) (*catalog.AdjustStockResponse, error) {
	if m.adjustStockFunc != nil {
		return m.adjustStockFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) CountLowStock(_ context.Context, _ int) (*catalog.CountLowStockResponse, error) {
	return nil, errNotImplemented
}

// mockClientPort implements client.ClientPort for testing
type mockClientPort struct {
	deleteClientFunc func(ctx context.Context, id string) error
}

func (m *mockClientPort) ListClients(_ context.Context, _ string) (*client.ListClientsResponse, error) {
	return nil, errNotImplemented
}

func (m *mockClientPort) GetClient(_ context.Context, _ string) (*client.ClientResponse, error) {
	return nil, errNotImplemented
}

func (m *mockClientPort) CreateClient(_ context.Context, _ *client.CreateClientRequest) (*client.ClientResponse, error) {
	return nil, errNotImplemented
}

func (m *mockClientPort) UpdateClient(_ context.Context, _ *client.UpdateClientRequest) (*client.ClientResponse, error) {
	return nil, errNotImplemented
}

func (m *mockClientPort) DeleteClient(ctx context.Context, id string) error {
	if m.deleteClientFunc != nil {
		return m.deleteClientFunc(ctx, id)
	}
	return errNotImplemented
}

// mockOrderPort implements order.OrderPort for testing
type mockOrderPort struct {
	createOrderFunc       func(ctx context.Context, req *order.CreateOrderRequest) (*order.OrderResponse, error)
	listOrdersFunc        func(ctx context.Context, view string) (*order.ListOrdersResponse, error)
	confirmProductionFunc func(ctx context.Context, req *order.ConfirmProductionRequest) (*order.ConfirmProductionResponse, error)
	finishOrderFunc       func(ctx context.Context, req *order.FinishOrderRequest) (*order.FinishOrderResponse, error)
}

func (m *mockOrderPort) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.OrderResponse, error) {
	if m.createOrderFunc != nil {
		return m.createOrderFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockOrderPort) QuoteOrder(_ context.Context, _ *order.QuoteRequest) (*order.QuoteResponse, error) {
	return nil, errNotImplemented
}

func (m *mockOrderPort) GetOrder(_ context.Context, _ string) (*order.OrderResponse, error) {
	return nil, errNotImplemented
}

func (m *mockOrderPort) ListOrders(ctx context.Context, view string) (*order.ListOrdersResponse, error) {
	if m.listOrdersFunc != nil {
		return m.listOrdersFunc(ctx, view)
	}
	return nil, errNotImplemented
}

func (m *mockOrderPort) DeleteOrders(_ context.Context, _ []string) (*order.DeleteOrdersResponse, error) {
	return nil, errNotImplemented
}

func (m *mockOrderPort) ConfirmProduction(ctx context.Context, req *order.ConfirmProductionRequest) (*order.ConfirmProductionResponse, error) {
	if m.confirmProductionFunc != nil {
		return m.confirmProductionFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockOrderPort) FinishOrder(ctx context.Context, req *order.FinishOrderRequest) (*order.FinishOrderResponse, error) {
	if m.finishOrderFunc != nil {
		return m.finishOrderFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockOrderPort) CountOrders(_ context.Context, _ orderdomain.Status) (*order.CountOrdersResponse, error) {
	return nil, errNotImplemented
}

func (m *mockOrderPort) CompletedRevenue(_ context.Context) (*order.RevenueResponse, error) {
	return nil, errNotImplemented
}

// mockDashboardPort implements dashboard.DashboardPort for testing
type mockDashboardPort struct {
	getDashboardFunc func(ctx context.Context) (*dashboard.Snapshot, error)
}

func (m *mockDashboardPort) GetDashboard(ctx context.Context) (*dashboard.Snapshot, error) {
	if m.getDashboardFunc != nil {
		return m.getDashboardFunc(ctx)
	}
	return nil, errNotImplemented
}
