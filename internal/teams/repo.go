package teams

import (
	"context"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines team membership lookups.
type Repository interface {
	TeamsForUser(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	TeamsLedBy(ctx context.Context, leadID uuid.UUID) ([]models.Team, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a teams repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TeamsForUser(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT team_id FROM team_members WHERE user_id = ?)", userID).
		Order("name ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *repository) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("team_members").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) TeamsLedBy(ctx context.Context, leadID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Where("team_lead_id = ?", leadID).
		Order("name ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *repository) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	member := &models.TeamMember{
		ID:     uuid.New(),
		TeamID: teamID,
		UserID: userID,
	}
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
