package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, available int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()),
		Slug:       fmt.Sprintf("test-product-%s", uuid.NewString()),
		Title:      "Test Product",
		Category:   "accessories",
		Tags:       pq.StringArray{"test"},
		ImageURLs:  pq.StringArray{},
		PriceCents: 150000,
		Currency:   "XOF",
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	inventory := &models.InventoryItem{
		ProductID:    product.ID,
		AvailableQty: available,
	}
	if err := tx.Create(inventory).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	product.Inventory = inventory
	return product
}
