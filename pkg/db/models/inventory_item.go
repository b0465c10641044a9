package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks stock counts per product. AvailableQty is only moved
// by conditional UPDATEs inside the order transaction so reservations are
// all-or-nothing.
type InventoryItem struct {
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	AvailableQty      int       `gorm:"column:available_qty;not null;default:0"`
	ReservedQty       int       `gorm:"column:reserved_qty;not null;default:0"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:5"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
