package estimates

import (
	"context"
	"errors"
	"fmt"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an estimates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateHeader(ctx context.Context, binding Binding, header *models.Estimate) (*models.Estimate, error) {
	err := r.db.WithContext(ctx).
		Table(binding.HeaderTable).
		Create(header).Error
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (r *repository) CreateRows(ctx context.Context, binding Binding, rows []models.EstimateRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Table(binding.RowTable).
		Create(&rows).Error
}

func (r *repository) FindHeader(ctx context.Context, binding Binding, estimateID int64, scope func(*gorm.DB) *gorm.DB) (*models.Estimate, error) {
	q := r.db.WithContext(ctx).
		Table(binding.HeaderTable).
		Where("id = ?", estimateID)
	if scope != nil {
		q = scope(q)
	}

	var header models.Estimate
	err := q.First(&header).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *repository) FindRows(ctx context.Context, binding Binding, estimateID int64) ([]models.EstimateRow, error) {
	var rows []models.EstimateRow
	err := r.db.WithContext(ctx).
		Table(binding.RowTable).
		Where("estimate_id = ?", estimateID).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListHeaders(ctx context.Context, binding Binding, scope func(*gorm.DB) *gorm.DB, params ListParams) ([]models.Estimate, error) {
	q := r.db.WithContext(ctx).Table(binding.HeaderTable)
	if scope != nil {
		q = scope(q)
	}
	if params.BeforeID > 0 {
		q = q.Where("id < ?", params.BeforeID)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var headers []models.Estimate
	if err := q.Order("id DESC").Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *repository) VersionsForCustomer(ctx context.Context, binding Binding, customerID uuid.UUID) ([]string, error) {
	var versions []string
	err := r.db.WithContext(ctx).
		Table(binding.HeaderTable).
		Where("customer_id = ?", customerID).
		Pluck("version", &versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *repository) UpdateStage(ctx context.Context, binding Binding, ownerID uuid.UUID, version string, from enums.Stage, to enums.Stage, assignedTo *uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Table(binding.HeaderTable).
		Where("user_id = ? AND version = ? AND stage = ?", ownerID, version, from).
		Updates(map[string]any{
			"stage":       to,
			"assigned_to": assignedTo,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) DeleteRows(ctx context.Context, binding Binding, estimateID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Table(binding.RowTable).
		Where("estimate_id = ?", estimateID).
		Delete(&models.EstimateRow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) DeleteHeader(ctx context.Context, binding Binding, estimateID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Table(binding.HeaderTable).
		Where("id = ?", estimateID).
		Delete(&models.Estimate{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListAssignedAcrossCategories walks every category's header table and
// collects estimates assigned to the user. Eleven small indexed queries;
// the categories are a closed set so the fan-out is bounded. Each table is
// attempted even when an earlier one fails, so the caller sees every broken
// table at once.
func (r *repository) ListAssignedAcrossCategories(ctx context.Context, userID uuid.UUID) ([]AssignedEstimate, error) {
	var (
		out  []AssignedEstimate
		errs error
	)
	for _, category := range enums.Categories() {
		table, err := HeaderTableFor(category)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		var headers []models.Estimate
		err = r.db.WithContext(ctx).
			Table(table).
			Where("assigned_to = ?", userID).
			Order("id DESC").
			Find(&headers).Error
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("listing %s: %w", table, err))
			continue
		}
		for _, header := range headers {
			out = append(out, AssignedEstimate{Category: category, Estimate: header})
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// IsNotFound reports whether err is the driver's empty-result sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
