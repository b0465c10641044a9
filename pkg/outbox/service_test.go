package outbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:outbox_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestEmitIfNotExistsQueuesOnce(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	svc := NewService(NewRepository(tx), nil)
	event := DomainEvent{
		EventType:     enums.EventOrderExpired,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Data:          map[string]string{"reason": "payment_timeout"},
		Version:       1,
	}

	if err := svc.EmitIfNotExists(context.Background(), tx, event); err != nil {
		t.Fatalf("first emit: %v", err)
	}
	if err := svc.EmitIfNotExists(context.Background(), tx, event); err != nil {
		t.Fatalf("repeat emit: %v", err)
	}

	var count int64
	if err := tx.Model(&models.OutboxEvent{}).
		Where("aggregate_id = ?", event.AggregateID).
		Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one queued event, got %d", count)
	}

	// A different aggregate still queues.
	other := event
	other.AggregateID = uuid.New()
	if err := svc.EmitIfNotExists(context.Background(), tx, other); err != nil {
		t.Fatalf("emit other aggregate: %v", err)
	}
	exists, err := NewRepository(tx).ExistsTx(tx, other.EventType, other.AggregateType, other.AggregateID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected event row for second aggregate")
	}
}
