package models

import (
	dbtypes "github.com/avenirinteriors/estimation-backend/pkg/db/types"
	"github.com/shopspring/decimal"
)

// EstimateRow is one priced line item. Rows are owned exclusively by their
// header and share its lifecycle; category-specific measurements live in
// the Details jsonb column so every row table keeps the same shape.
type EstimateRow struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	EstimateID  int64           `gorm:"column:estimate_id;not null;index"`
	Position    int             `gorm:"column:position;not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Rate        decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Details     dbtypes.JSONMap `gorm:"column:details;type:jsonb"`
}
