package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Permission grants live in
// user_permissions and are supplied by the auth collaborator at request
// time; the row here only carries what the core needs for lookups.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	Role      string     `gorm:"column:role;type:text;not null"`
	ReportsTo *uuid.UUID `gorm:"column:reports_to;type:uuid"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
