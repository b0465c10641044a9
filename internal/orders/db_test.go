package orders

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.InventoryItem{},
		&models.Coupon{},
		&models.ShippingMethod{},
		&models.CartRecord{},
		&models.CartItem{},
		&models.Order{},
		&models.PaymentTransaction{},
		&models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}
