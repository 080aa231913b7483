package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

// CatalogPort is the catalog API for other modules.
type CatalogPort interface {
	ListProducts(ctx context.Context, category string) (*ListProductsResponse, error)
	ListCategories(ctx context.Context) (*ListCategoriesResponse, error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteProducts(ctx context.Context, ids []string) (*DeleteProductsResponse, error)
	AdjustStock(ctx context.Context, req *AdjustStockRequest) (*AdjustStockResponse, error)
	CountLowStock(ctx context.Context, threshold int) (*CountLowStockResponse, error)
}

// catalogAdapter implements CatalogPort over the catalog's ServiceContainer.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a CatalogPort for the catalog module's container.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

func (a *catalogAdapter) ListProducts(ctx context.Context, category string) (*ListProductsResponse, error) {
	var resp ListProductsResponse
	if err := callService(ctx, a.container, "list-products", &ListProductsRequest{Category: category}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) ListCategories(ctx context.Context) (*ListCategoriesResponse, error) {
	var resp ListCategoriesResponse
	if err := callService(ctx, a.container, "list-categories", &ListCategoriesRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "get-product", &GetProductRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "create-product", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "update-product", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) DeleteProduct(ctx context.Context, id string) error {
	var resp DeleteProductsResponse
	return callService(ctx, a.container, "delete-product", &DeleteProductRequest{ID: id}, &resp)
}

func (a *catalogAdapter) DeleteProducts(ctx context.Context, ids []string) (*DeleteProductsResponse, error) {
	var resp DeleteProductsResponse
	if err := callService(ctx, a.container, "delete-products", &DeleteProductsRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) AdjustStock(ctx context.Context, req *AdjustStockRequest) (*AdjustStockResponse, error) {
	var resp AdjustStockResponse
	if err := callService(ctx, a.container, "adjust-stock", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) CountLowStock(ctx context.Context, threshold int) (*CountLowStockResponse, error) {
	var resp CountLowStockResponse
	if err := callService(ctx, a.container, "count-low-stock", &CountLowStockRequest{Threshold: threshold}, &resp); err != nil {
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
