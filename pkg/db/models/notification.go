package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avenirinteriors/estimation-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users.
// Immutable once created except for the Seen flag.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Type      enums.NotificationType `gorm:"type:text;not null"`
	Title     string                 `gorm:"type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	Seen      bool                   `gorm:"column:seen;not null;default:false"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
