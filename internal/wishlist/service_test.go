package wishlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	product "github.com/shoplux/shoplux-backend/internal/products"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:wishlist_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.InventoryItem{}, &models.WishlistItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateWishlistProduct(t *testing.T, tx *gorm.DB, active bool) *models.Product {
	t.Helper()

	suffix := uuid.New().String()[:8]
	row := &models.Product{
		SKU:        fmt.Sprintf("SKU-%s", suffix),
		Slug:       fmt.Sprintf("slug-%s", suffix),
		Title:      "Wishlist Product " + suffix,
		Category:   "test",
		PriceCents: 250000,
		Currency:   enums.CurrencyXOF,
		IsActive:   active,
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := tx.Create(&models.InventoryItem{ProductID: row.ID, AvailableQty: 5}).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return row
}

func newWishlistService(t *testing.T, tx *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(tx),
		ProductRepo:  product.NewRepository(tx),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := newWishlistService(t, tx)
	userID := uuid.New()
	row := mustCreateWishlistProduct(t, tx, true)

	if err := svc.AddItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.AddItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("AddItem second time: %v", err)
	}

	page, err := svc.GetWishlist(context.Background(), userID, "", 10)
	if err != nil {
		t.Fatalf("GetWishlist: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item after duplicate add, got %d", len(page.Items))
	}
	if page.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Total)
	}
	if page.Items[0].Product.ID != row.ID {
		t.Fatalf("expected product %s, got %s", row.ID, page.Items[0].Product.ID)
	}
}

func TestAddItemRejectsUnknownOrInactiveProduct(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := newWishlistService(t, tx)
	userID := uuid.New()

	err := svc.AddItem(context.Background(), userID, uuid.New())
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}

	inactive := mustCreateWishlistProduct(t, tx, false)
	err = svc.AddItem(context.Background(), userID, inactive.ID)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := newWishlistService(t, tx)
	userID := uuid.New()
	row := mustCreateWishlistProduct(t, tx, true)

	if err := svc.AddItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.RemoveItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := svc.RemoveItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("RemoveItem second time: %v", err)
	}

	page, err := svc.GetWishlist(context.Background(), userID, "", 10)
	if err != nil {
		t.Fatalf("GetWishlist: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty wishlist, got %d items", len(page.Items))
	}
}

func TestGetWishlistPaginates(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := newWishlistService(t, tx)
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		row := mustCreateWishlistProduct(t, tx, true)
		if err := svc.AddItem(context.Background(), userID, row.ID); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	first, err := svc.GetWishlist(context.Background(), userID, "", 2)
	if err != nil {
		t.Fatalf("GetWishlist first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items on first page, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if first.Total != 3 {
		t.Fatalf("expected total 3, got %d", first.Total)
	}

	second, err := svc.GetWishlist(context.Background(), userID, first.NextCursor, 2)
	if err != nil {
		t.Fatalf("GetWishlist second page: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("expected 1 item on second page, got %d", len(second.Items))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor on last page, got %q", second.NextCursor)
	}
}

func TestGetWishlistIDs(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := newWishlistService(t, tx)
	userID := uuid.New()
	row := mustCreateWishlistProduct(t, tx, true)
	if err := svc.AddItem(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	ids, err := svc.GetWishlistIDs(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetWishlistIDs: %v", err)
	}
	if len(ids.ProductIDs) != 1 || ids.ProductIDs[0] != row.ID {
		t.Fatalf("unexpected ids %v", ids.ProductIDs)
	}
}
