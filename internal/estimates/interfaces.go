package estimates

import (
	"context"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for estimate tables. Every
// method takes a Binding so the same code serves all eleven category
// schemas.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateHeader(ctx context.Context, binding Binding, header *models.Estimate) (*models.Estimate, error)
	CreateRows(ctx context.Context, binding Binding, rows []models.EstimateRow) error
	FindHeader(ctx context.Context, binding Binding, estimateID int64, scope func(*gorm.DB) *gorm.DB) (*models.Estimate, error)
	FindRows(ctx context.Context, binding Binding, estimateID int64) ([]models.EstimateRow, error)
	ListHeaders(ctx context.Context, binding Binding, scope func(*gorm.DB) *gorm.DB, params ListParams) ([]models.Estimate, error)
	VersionsForCustomer(ctx context.Context, binding Binding, customerID uuid.UUID) ([]string, error)
	UpdateStage(ctx context.Context, binding Binding, ownerID uuid.UUID, version string, from enums.Stage, to enums.Stage, assignedTo *uuid.UUID) (int64, error)
	DeleteRows(ctx context.Context, binding Binding, estimateID int64) (int64, error)
	DeleteHeader(ctx context.Context, binding Binding, estimateID int64) (int64, error)
	ListAssignedAcrossCategories(ctx context.Context, userID uuid.UUID) ([]AssignedEstimate, error)
}

// Service exposes the estimate operations consumed by the HTTP layer.
type Service interface {
	Create(ctx context.Context, input CreateEstimateInput) (*EstimateDetail, error)
	List(ctx context.Context, input ListEstimatesInput) ([]models.Estimate, error)
	GetWithRows(ctx context.Context, input GetEstimateInput) (*EstimateDetail, error)
	Delete(ctx context.Context, input DeleteEstimateInput) (int64, error)
	NextVersion(ctx context.Context, category enums.Category, flooringType *enums.FlooringType, customerID uuid.UUID) (string, error)
	ListAssigned(ctx context.Context, userID uuid.UUID) ([]AssignedEstimate, error)
	Summary(ctx context.Context, input ListEstimatesInput) (*EstimateSummary, error)
}
