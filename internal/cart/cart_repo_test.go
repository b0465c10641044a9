package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
)

func mustCreateCartProduct(t *testing.T, tx *gorm.DB, priceCents int64, availableQty int) *models.Product {
	t.Helper()

	suffix := uuid.New().String()[:8]
	product := &models.Product{
		SKU:        fmt.Sprintf("SKU-%s", suffix),
		Slug:       fmt.Sprintf("slug-%s", suffix),
		Title:      "Test Product " + suffix,
		Category:   "test",
		PriceCents: priceCents,
		Currency:   enums.CurrencyXOF,
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := tx.Create(&models.InventoryItem{
		ProductID:    product.ID,
		AvailableQty: availableQty,
	}).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	product.Inventory = &models.InventoryItem{ProductID: product.ID, AvailableQty: availableQty}
	return product
}

func TestFindOrCreateActiveReusesCart(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	userID := uuid.New()

	first, err := repo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	second, err := repo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same active cart, got %s then %s", first.ID, second.ID)
	}
	if second.Status != enums.CartStatusActive {
		t.Fatalf("expected active status, got %s", second.Status)
	}
}

func TestMarkConvertedClearsItems(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	userID := uuid.New()
	product := mustCreateCartProduct(t, tx, 2500, 5)

	record, err := repo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if err := repo.SaveItem(context.Background(), &models.CartItem{
		CartID:         record.ID,
		ProductID:      product.ID,
		Quantity:       2,
		UnitPriceCents: product.PriceCents,
	}); err != nil {
		t.Fatalf("save item: %v", err)
	}

	if err := repo.MarkConverted(context.Background(), record.ID); err != nil {
		t.Fatalf("mark converted: %v", err)
	}

	var converted models.CartRecord
	if err := tx.Preload("Items").First(&converted, "id = ?", record.ID).Error; err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if converted.Status != enums.CartStatusConverted {
		t.Fatalf("expected converted status, got %s", converted.Status)
	}
	if converted.ConvertedAt == nil {
		t.Fatalf("expected converted_at to be set")
	}
	if len(converted.Items) != 0 {
		t.Fatalf("expected items cleared, got %d", len(converted.Items))
	}

	// The user gets a fresh cart afterwards.
	next, err := repo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("create next cart: %v", err)
	}
	if next.ID == record.ID {
		t.Fatalf("expected a new cart after conversion")
	}
}

func TestSaveItemUpsertsLine(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	record, err := repo.FindOrCreateActive(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	product := mustCreateCartProduct(t, tx, 1000, 10)

	item := &models.CartItem{
		CartID:         record.ID,
		ProductID:      product.ID,
		ProductName:    product.Title,
		Quantity:       1,
		UnitPriceCents: 1000,
	}
	if err := repo.SaveItem(context.Background(), item); err != nil {
		t.Fatalf("insert item: %v", err)
	}

	item.Quantity = 3
	if err := repo.SaveItem(context.Background(), item); err != nil {
		t.Fatalf("update item: %v", err)
	}

	stored, err := repo.FindItem(context.Background(), record.ID, product.ID, nil)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", stored.Quantity)
	}
}
