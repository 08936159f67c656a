package estimates

import (
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	dbtypes "github.com/avenirinteriors/estimation-backend/pkg/db/types"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowInput is one line item supplied by the caller. Amount is recomputed
// server side from quantity and rate.
type RowInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Rate        decimal.Decimal `json:"rate" validate:"required"`
	Details     dbtypes.JSONMap `json:"details,omitempty"`
}

// CreateEstimateInput carries everything needed to persist a new estimate.
type CreateEstimateInput struct {
	Category     enums.Category
	FlooringType *enums.FlooringType
	CustomerID   uuid.UUID
	UserID       uuid.UUID
	AssignedTo   *uuid.UUID
	Rows         []RowInput
}

// ListEstimatesInput scopes a header listing to the caller's visibility.
type ListEstimatesInput struct {
	Category     enums.Category
	FlooringType *enums.FlooringType
	CallerID     uuid.UUID
	Grants       map[string][]string
	Params       ListParams
}

// ListParams pages header listings. Headers are keyed by bigserial ids,
// so paging walks `id < beforeID` in descending order.
type ListParams struct {
	Limit    int
	BeforeID int64
}

// GetEstimateInput targets a single estimate with its rows.
type GetEstimateInput struct {
	Category     enums.Category
	FlooringType *enums.FlooringType
	EstimateID   int64
	CallerID     uuid.UUID
	Grants       map[string][]string
}

// DeleteEstimateInput targets an estimate for removal.
type DeleteEstimateInput struct {
	Category     enums.Category
	FlooringType *enums.FlooringType
	EstimateID   int64
}

// EstimateDetail pairs a header with its line items.
type EstimateDetail struct {
	Estimate models.Estimate      `json:"estimate"`
	Rows     []models.EstimateRow `json:"rows"`
}

// AssignedEstimate is one row of the cross-category assignment view.
type AssignedEstimate struct {
	Category enums.Category  `json:"category"`
	Estimate models.Estimate `json:"estimate"`
}

// EstimateSummary aggregates the headers visible to a caller.
type EstimateSummary struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ByStage     map[string]int  `json:"byStage"`
}
