package users

import (
	"context"
	"errors"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines user lookup operations.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FirstActiveByRole(ctx context.Context, role string) (*models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstActiveByRole returns the longest-standing active holder of a role,
// or nil when nobody holds it.
func (r *repository) FirstActiveByRole(ctx context.Context, role string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
