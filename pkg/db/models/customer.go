package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the party an estimate is priced for.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Email     *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:text"`
	Address   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
