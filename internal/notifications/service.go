package notifications

import (
	"context"
	"strings"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ListResult is one page of a user's notification feed.
type ListResult struct {
	Notifications []models.Notification `json:"notifications"`
	NextCursor    *string               `json:"nextCursor,omitempty"`
}

// Service exposes the notification center plus the Emit sink used by the
// estimate write paths.
type Service interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message string, typ enums.NotificationType) error
	List(ctx context.Context, userID uuid.UUID, cursorToken string, limit int) (*ListResult, error)
	MarkSeen(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllSeen(ctx context.Context, userID uuid.UUID) (int64, error)
	UnseenCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// NewService wires the notification service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Emit(ctx context.Context, userID uuid.UUID, title, message string, typ enums.NotificationType) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification recipient is required")
	}
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification title is required")
	}
	if !typ.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}

	_, err := s.repo.Create(ctx, &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, cursorToken string, limit int) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(cursorToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	pageSize := pagination.NormalizeLimit(limit)
	notifications, err := s.repo.ListForUser(ctx, userID, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing notifications")
	}

	result := &ListResult{Notifications: notifications}
	if len(notifications) > pageSize {
		result.Notifications = notifications[:pageSize]
		last := result.Notifications[pageSize-1]
		token := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &token
	}
	return result, nil
}

func (s *service) MarkSeen(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.repo.MarkSeen(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notification seen")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllSeen(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllSeen(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notifications seen")
	}
	return affected, nil
}

func (s *service) UnseenCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnseen(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting unseen notifications")
	}
	return count, nil
}
