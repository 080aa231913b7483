package catalog

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ApplyStockDelta changes a product's stock by delta in a single UPDATE so
// concurrent writers never lose an adjustment. Stock is allowed to go
// negative. It reports the number of rows touched, zero when the product
// does not exist.
func ApplyStockDelta(db *gorm.DB, productID string, delta int) (int64, error) {
	result := db.Model(&Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_at":    time.Now(),
		})
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return result.RowsAffected, nil
}
