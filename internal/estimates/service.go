package estimates

import (
	"context"
	"fmt"

	"github.com/avenirinteriors/estimation-backend/internal/permissions"
	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	"github.com/avenirinteriors/estimation-backend/pkg/metrics"
	"github.com/avenirinteriors/estimation-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// versionRetryAttempts bounds how often a create retries after losing the
// unique-version race to a concurrent writer.
const versionRetryAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// NotificationSink delivers best-effort notifications after a write
// commits. Failures never affect the write they trail.
type NotificationSink interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message string, typ enums.NotificationType) error
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier NotificationSink
	metrics  *metrics.EstimateMetrics
	logg     *logger.Logger
}

// NewService wires the estimate service with its collaborators.
func NewService(repo Repository, tx txRunner, notifier NotificationSink, m *metrics.EstimateMetrics, logg *logger.Logger) Service {
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		metrics:  m,
		logg:     logg,
	}
}

func (s *service) Create(ctx context.Context, input CreateEstimateInput) (*EstimateDetail, error) {
	if missing := missingCreateFields(input); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimate payload incomplete").
			WithDetails(map[string]any{"missingFields": missing})
	}

	binding, err := Bind(input.Category, input.FlooringType)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	rows := make([]models.EstimateRow, 0, len(input.Rows))
	for i, row := range input.Rows {
		amount := row.Quantity.Mul(row.Rate).Round(2)
		total = total.Add(amount)
		rows = append(rows, models.EstimateRow{
			Position:    i + 1,
			Description: row.Description,
			Quantity:    row.Quantity,
			Rate:        row.Rate,
			Amount:      amount,
			Details:     row.Details,
		})
	}

	var header *models.Estimate
	for attempt := 0; attempt < versionRetryAttempts; attempt++ {
		header, err = s.createOnce(ctx, binding, input, rows, total)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, binding.VersionConstraint) {
			// A concurrent writer claimed the version first; recompute
			// against the committed state and try again.
			continue
		}
		s.metrics.IncWriteFailure(binding.Category.String())
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting estimate")
	}
	if err != nil {
		s.metrics.IncWriteFailure(binding.Category.String())
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
			"estimate version contention, retry the request")
	}

	s.metrics.IncCreated(binding.Category.String())
	s.notifyCreated(ctx, binding, header)

	detail := &EstimateDetail{Estimate: *header}
	detail.Rows, err = s.repo.FindRows(ctx, binding, header.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading estimate rows")
	}
	return detail, nil
}

// createOnce runs one transactional create attempt: allocate the next
// version from committed state, insert the header, then batch-insert the
// rows keyed by the generated header id.
func (s *service) createOnce(ctx context.Context, binding Binding, input CreateEstimateInput, rows []models.EstimateRow, total decimal.Decimal) (*models.Estimate, error) {
	var header *models.Estimate
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		stored, err := repo.VersionsForCustomer(ctx, binding, input.CustomerID)
		if err != nil {
			return err
		}
		current, err := MaxVersion(stored)
		if err != nil {
			return err
		}

		candidate := &models.Estimate{
			CustomerID:   input.CustomerID,
			UserID:       input.UserID,
			Version:      NextVersion(current).String(),
			TotalAmount:  total,
			Status:       enums.EstimateStatusDraft,
			Stage:        enums.StageSales,
			AssignedTo:   input.AssignedTo,
			FlooringType: input.FlooringType,
		}
		if _, err := repo.CreateHeader(ctx, binding, candidate); err != nil {
			return err
		}

		batch := make([]models.EstimateRow, len(rows))
		copy(batch, rows)
		for i := range batch {
			batch[i].EstimateID = candidate.ID
		}
		if err := repo.CreateRows(ctx, binding, batch); err != nil {
			return err
		}

		header = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (s *service) List(ctx context.Context, input ListEstimatesInput) ([]models.Estimate, error) {
	binding, err := Bind(input.Category, input.FlooringType)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(input.Grants, input.CallerID)
	if err != nil {
		return nil, err
	}

	params := input.Params
	params.Limit = pagination.NormalizeLimit(params.Limit)
	headers, err := s.repo.ListHeaders(ctx, binding, scope, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing estimates")
	}
	return headers, nil
}

func (s *service) GetWithRows(ctx context.Context, input GetEstimateInput) (*EstimateDetail, error) {
	binding, err := Bind(input.Category, input.FlooringType)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(input.Grants, input.CallerID)
	if err != nil {
		return nil, err
	}

	header, err := s.repo.FindHeader(ctx, binding, input.EstimateID, scope)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading estimate")
	}

	binding, err = storedRowBinding(binding, header)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindRows(ctx, binding, header.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading estimate rows")
	}
	return &EstimateDetail{Estimate: *header, Rows: rows}, nil
}

// storedRowBinding rebinds the row table from the persisted header's
// flooring sub-type. The stored value is authoritative: a caller asking
// for a vinyl estimate through the wooden sub-type still gets the vinyl
// rows, never an empty set read from the wrong table.
func storedRowBinding(binding Binding, header *models.Estimate) (Binding, error) {
	if header.FlooringType == nil {
		return binding, nil
	}
	return Bind(binding.Category, header.FlooringType)
}

// Delete removes an estimate and its rows in one transaction. Rows go
// first; no database-level cascade is assumed.
func (s *service) Delete(ctx context.Context, input DeleteEstimateInput) (int64, error) {
	binding, err := Bind(input.Category, input.FlooringType)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		header, err := repo.FindHeader(ctx, binding, input.EstimateID, nil)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
			}
			return err
		}
		binding, err := storedRowBinding(binding, header)
		if err != nil {
			return err
		}

		rowCount, err := repo.DeleteRows(ctx, binding, input.EstimateID)
		if err != nil {
			return err
		}
		headerCount, err := repo.DeleteHeader(ctx, binding, input.EstimateID)
		if err != nil {
			return err
		}
		if headerCount == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		deleted = rowCount + headerCount
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return 0, err
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting estimate")
	}
	return deleted, nil
}

func (s *service) NextVersion(ctx context.Context, category enums.Category, flooringType *enums.FlooringType, customerID uuid.UUID) (string, error) {
	binding, err := Bind(category, flooringType)
	if err != nil {
		return "", err
	}
	if customerID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customerId is required")
	}

	stored, err := s.repo.VersionsForCustomer(ctx, binding, customerID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading stored versions")
	}
	current, err := MaxVersion(stored)
	if err != nil {
		return "", err
	}
	return NextVersion(current).String(), nil
}

func (s *service) ListAssigned(ctx context.Context, userID uuid.UUID) ([]AssignedEstimate, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	assigned, err := s.repo.ListAssignedAcrossCategories(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing assigned estimates")
	}
	return assigned, nil
}

func (s *service) Summary(ctx context.Context, input ListEstimatesInput) (*EstimateSummary, error) {
	binding, err := Bind(input.Category, input.FlooringType)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(input.Grants, input.CallerID)
	if err != nil {
		return nil, err
	}

	headers, err := s.repo.ListHeaders(ctx, binding, scope, ListParams{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarising estimates")
	}

	summary := &EstimateSummary{
		TotalAmount: decimal.Zero,
		ByStage:     make(map[string]int),
	}
	for _, header := range headers {
		summary.Count++
		summary.TotalAmount = summary.TotalAmount.Add(header.TotalAmount)
		summary.ByStage[header.Stage.String()]++
	}
	return summary, nil
}

func (s *service) scopeFor(grants map[string][]string, callerID uuid.UUID) (func(*gorm.DB) *gorm.DB, error) {
	tier, err := permissions.Resolve(grants, enums.ModuleEstimate)
	if err != nil {
		return nil, err
	}
	return VisibilityScope(tier, callerID)
}

func (s *service) notifyCreated(ctx context.Context, binding Binding, header *models.Estimate) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Estimate %s (v%s) created", binding.Category, header.Version)
	if err := s.notifier.Emit(ctx, header.UserID, "Estimate Created", message, enums.NotificationTypeEstimate); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "estimate creation notification failed: "+err.Error())
	}
}

func missingCreateFields(input CreateEstimateInput) []string {
	var missing []string
	if input.CustomerID == uuid.Nil {
		missing = append(missing, "customerId")
	}
	if input.UserID == uuid.Nil {
		missing = append(missing, "userId")
	}
	if len(input.Rows) == 0 {
		missing = append(missing, "rows")
	}
	for i, row := range input.Rows {
		if row.Description == "" {
			missing = append(missing, fmt.Sprintf("rows[%d].description", i))
		}
		if row.Quantity.IsZero() {
			missing = append(missing, fmt.Sprintf("rows[%d].quantity", i))
		}
		if row.Rate.IsZero() {
			missing = append(missing, fmt.Sprintf("rows[%d].rate", i))
		}
	}
	return missing
}
