package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is an admin-editable transactional email body. Subject and
// body use {{variable}} placeholders filled in at send time.
type EmailTemplate struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Key       string    `gorm:"column:key;not null;uniqueIndex:email_templates_key_key"`
	Subject   string    `gorm:"column:subject;not null"`
	BodyHTML  string    `gorm:"column:body_html;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
