package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// Address is a saved delivery or billing address. At most one address per
// (user, type) carries IsDefault; the repository enforces that inside a
// transaction when a new default is chosen.
type Address struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:addresses_user_id_idx"`
	Type         enums.AddressType `gorm:"column:type;type:address_type;not null;default:'shipping'"`
	Label        *string           `gorm:"column:label"`
	FullName     string            `gorm:"column:full_name;not null"`
	Phone        string            `gorm:"column:phone;not null"`
	Line1        string            `gorm:"column:line1;not null"`
	Line2        *string           `gorm:"column:line2"`
	City         string            `gorm:"column:city;not null"`
	Region       *string           `gorm:"column:region"`
	PostalCode   *string           `gorm:"column:postal_code"`
	CountryCode  string            `gorm:"column:country_code;type:char(2);not null"`
	Instructions *string           `gorm:"column:instructions"`
	IsDefault    bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
