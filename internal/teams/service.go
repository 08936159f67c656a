package teams

import (
	"context"
	"errors"

	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const memberConstraint = "idx_team_members_team_user"

// UserDirectory looks up users before they are attached to a team.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes team membership management.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	Members(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

type service struct {
	repo      Repository
	directory UserDirectory
}

// NewService wires the teams service.
func NewService(repo Repository, directory UserDirectory) Service {
	return &service{repo: repo, directory: directory}
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	teams, err := s.repo.TeamsForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing teams")
	}
	return teams, nil
}

func (s *service) Members(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	if teamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "teamId is required")
	}
	ids, err := s.repo.MemberIDs(ctx, teamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing team members")
	}
	return ids, nil
}

func (s *service) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if teamID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "teamId and userId are required")
	}

	if _, err := s.directory.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up user")
	}

	if err := s.repo.AddMember(ctx, teamID, userID); err != nil {
		if db.IsUniqueViolation(err, memberConstraint) {
			return pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of the team")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding team member")
	}
	return nil
}

func (s *service) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if teamID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "teamId and userId are required")
	}

	affected, err := s.repo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing team member")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
	}
	return nil
}
