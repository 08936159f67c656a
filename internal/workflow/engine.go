package workflow

import (
	"context"
	"fmt"

	"github.com/avenirinteriors/estimation-backend/internal/estimates"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	"github.com/avenirinteriors/estimation-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PromoteInput identifies the exact row a promotion targets. The match is
// an optimistic precondition: owner, version and prior stage must all
// agree with the stored state.
type PromoteInput struct {
	Category     enums.Category
	FlooringType *enums.FlooringType
	ActorID      uuid.UUID
	Version      string
	CurrentStage enums.Stage
	AssignedTo   *uuid.UUID
}

// PromoteResult reports the stage the estimate landed in.
type PromoteResult struct {
	NewStage enums.Stage `json:"newStage"`
}

// Engine advances estimates through the fixed stage sequence.
type Engine struct {
	repo      estimates.Repository
	tx        txRunner
	directory RoleDirectory
	notifier  estimates.NotificationSink
	metrics   *metrics.EstimateMetrics
	logg      *logger.Logger
}

// NewEngine wires the promotion engine with its collaborators.
func NewEngine(repo estimates.Repository, tx txRunner, directory RoleDirectory, notifier estimates.NotificationSink, m *metrics.EstimateMetrics, logg *logger.Logger) *Engine {
	return &Engine{
		repo:      repo,
		tx:        tx,
		directory: directory,
		notifier:  notifier,
		metrics:   m,
		logg:      logg,
	}
}

// Promote moves the matching estimate to the next stage and reassigns it.
// The stage update is authoritative; the trailing notification is best
// effort and never unwinds it.
func (e *Engine) Promote(ctx context.Context, input PromoteInput) (*PromoteResult, error) {
	binding, err := estimates.Bind(input.Category, input.FlooringType)
	if err != nil {
		return nil, err
	}
	if input.ActorID == uuid.Nil || input.Version == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor and version are required")
	}

	next, ok := input.CurrentStage.Next()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("no transition defined from stage %q", input.CurrentStage)).
			WithDetails(map[string]any{"currentStage": input.CurrentStage.String()})
	}

	err = e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := e.repo.WithTx(tx).UpdateStage(ctx, binding,
			input.ActorID, input.Version, input.CurrentStage, next, input.AssignedTo)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				"no estimate matches the expected owner, version and stage")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promoting estimate")
	}

	e.metrics.IncPromoted(binding.Category.String(), next.String())
	e.notifyPromoted(ctx, binding, input, next)

	return &PromoteResult{NewStage: next}, nil
}

func (e *Engine) notifyPromoted(ctx context.Context, binding estimates.Binding, input PromoteInput, next enums.Stage) {
	if e.notifier == nil {
		return
	}

	recipient, err := ResolveRecipient(ctx, e.directory, next, input.AssignedTo)
	if err != nil {
		e.warn(ctx, "promotion recipient lookup failed: "+err.Error())
		return
	}
	if recipient == nil {
		return
	}

	message := fmt.Sprintf("Estimate %s (v%s) promoted to %s", binding.Category, input.Version, next)
	if err := e.notifier.Emit(ctx, *recipient, "Estimate Promoted", message, enums.NotificationTypeEstimate); err != nil {
		e.warn(ctx, "promotion notification failed: "+err.Error())
	}
}

func (e *Engine) warn(ctx context.Context, msg string) {
	if e.logg != nil {
		e.logg.Warn(ctx, msg)
	}
}
