package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
)

// ProductResponse is the product representation returned by the catalog.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock int             `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ListProductsRequest filters the product list.
type ListProductsRequest struct {
	Category string `json:"category,omitempty"`
}

// ListProductsResponse is the list-products result.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// ListCategoriesRequest is the list-categories request.
type ListCategoriesRequest struct{}

// ListCategoriesResponse is the list-categories result.
type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GetProductRequest identifies a product.
type GetProductRequest struct {
	ID string `json:"id"`
}

// CreateProductRequest is the create-product request.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	InitialStock int             `json:"initial_stock"`
}

// UpdateProductRequest is the update-product request.
type UpdateProductRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeleteProductRequest identifies the product to delete.
type DeleteProductRequest struct {
	ID string `json:"id"`
}

// DeleteProductsRequest lists the products to delete.
type DeleteProductsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteProductsResponse reports how many products were deleted.
type DeleteProductsResponse struct {
	Deleted int64 `json:"deleted"`
}

// AdjustStockRequest is the adjust-stock request.
type AdjustStockRequest struct {
	ID        string           `json:"id"`
	Amount    int              `json:"amount"`
	Direction domain.Direction `json:"direction"`
}

// AdjustStockResponse is the stock level after an adjustment.
type AdjustStockResponse struct {
	ID           string `json:"id"`
	Delta        int    `json:"delta"`
	CurrentStock int    `json:"current_stock"`
}

// CountLowStockRequest is the count-low-stock request.
type CountLowStockRequest struct {
	Threshold int `json:"threshold"`
}

// CountLowStockResponse is the number of products below the threshold.
type CountLowStockResponse struct {
	Threshold int   `json:"threshold"`
	Count     int64 `json:"count"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice,
		CurrentStock: p.CurrentStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
