package models

import (
	"time"

	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estimate is the shared header shape every category table carries. The
// struct deliberately has no fixed table name: repositories bind it to the
// category's header table through the catalog, never through caller input.
// IDs are bigserial so `id DESC` matches insertion order.
type Estimate struct {
	ID           int64                `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	UserID       uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	Version      string               `gorm:"column:version;type:text;not null"`
	TotalAmount  decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status       enums.EstimateStatus `gorm:"column:status;type:text;not null"`
	Stage        enums.Stage          `gorm:"column:stage;type:text;not null"`
	AssignedTo   *uuid.UUID           `gorm:"column:assigned_to;type:uuid"`
	FlooringType *enums.FlooringType  `gorm:"column:flooring_type;type:text"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}
