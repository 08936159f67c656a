package workflow

import (
	"context"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	"github.com/google/uuid"
)

// RoleDirectory finds users by the role they hold.
type RoleDirectory interface {
	FirstActiveByRole(ctx context.Context, role string) (*models.User, error)
}

// ResolveRecipient picks who gets told about a promotion: prefer an active
// user whose role matches the new stage name, else fall back to whoever
// the estimate was assigned to. Returns nil when neither resolves.
func ResolveRecipient(ctx context.Context, directory RoleDirectory, newStage enums.Stage, assignedTo *uuid.UUID) (*uuid.UUID, error) {
	if directory != nil {
		user, err := directory.FirstActiveByRole(ctx, newStage.String())
		if err != nil {
			return nil, err
		}
		if user != nil {
			id := user.ID
			return &id, nil
		}
	}
	if assignedTo != nil && *assignedTo != uuid.Nil {
		id := *assignedTo
		return &id, nil
	}
	return nil, nil
}
