package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the customer profile row mirrored from the identity provider.
// Authentication itself happens upstream; this row anchors foreign keys
// for carts, addresses, orders and notifications.
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email     string     `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	FullName  *string    `gorm:"column:full_name"`
	Phone     *string    `gorm:"column:phone"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}
