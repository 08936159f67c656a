package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenirinteriors/estimation-backend/api/middleware"
	"github.com/avenirinteriors/estimation-backend/api/responses"
	"github.com/avenirinteriors/estimation-backend/api/validators"
	"github.com/avenirinteriors/estimation-backend/internal/estimates"
	"github.com/avenirinteriors/estimation-backend/internal/workflow"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	"github.com/avenirinteriors/estimation-backend/pkg/pagination"
)

type createEstimateRequest struct {
	CustomerID   uuid.UUID            `json:"customerId" validate:"required"`
	AssignedTo   *uuid.UUID           `json:"assignedTo,omitempty"`
	FlooringType *string              `json:"flooringType,omitempty"`
	Rows         []estimates.RowInput `json:"rows" validate:"required,min=1,dive"`
}

type promoteEstimateRequest struct {
	Version      string     `json:"version" validate:"required"`
	CurrentStage string     `json:"currentStage" validate:"required"`
	AssignedTo   *uuid.UUID `json:"assignedTo,omitempty"`
	FlooringType *string    `json:"flooringType,omitempty"`
}

func categoryFromRequest(r *http.Request) (enums.Category, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "category"))
	category, err := enums.ParseCategory(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown estimate category")
	}
	return category, nil
}

func flooringTypeFromString(raw *string) (*enums.FlooringType, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := enums.ParseFlooringType(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown flooring type")
	}
	return &parsed, nil
}

func flooringTypeFromQuery(r *http.Request) (*enums.FlooringType, error) {
	raw := r.URL.Query().Get("flooringType")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return flooringTypeFromString(&raw)
}

func callerFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	callerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid caller identity")
	}
	return callerID, nil
}

// CreateEstimate persists a new estimate with its line items.
func CreateEstimate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createEstimateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flooringType, err := flooringTypeFromString(req.FlooringType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), estimates.CreateEstimateInput{
			Category:     category,
			FlooringType: flooringType,
			CustomerID:   req.CustomerID,
			UserID:       callerID,
			AssignedTo:   req.AssignedTo,
			Rows:         req.Rows,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// ListEstimates returns the headers the caller's tier allows, newest first.
func ListEstimates(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flooringType, err := flooringTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		beforeID, err := validators.ParseQueryInt64(r, "beforeId", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		headers, err := svc.List(r.Context(), estimates.ListEstimatesInput{
			Category:     category,
			FlooringType: flooringType,
			CallerID:     callerID,
			Grants:       middleware.PermissionsFromContext(r.Context()),
			Params:       estimates.ListParams{Limit: limit, BeforeID: beforeID},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, headers)
	}
}

// GetEstimate returns a header and its rows.
func GetEstimate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		estimateID, err := strconv.ParseInt(chi.URLParam(r, "estimateID"), 10, 64)
		if err != nil || estimateID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "estimate id must be a positive integer"))
			return
		}
		flooringType, err := flooringTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetWithRows(r.Context(), estimates.GetEstimateInput{
			Category:     category,
			FlooringType: flooringType,
			EstimateID:   estimateID,
			CallerID:     callerID,
			Grants:       middleware.PermissionsFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// DeleteEstimate removes an estimate and its rows.
func DeleteEstimate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		estimateID, err := strconv.ParseInt(chi.URLParam(r, "estimateID"), 10, 64)
		if err != nil || estimateID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "estimate id must be a positive integer"))
			return
		}
		flooringType, err := flooringTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.Delete(r.Context(), estimates.DeleteEstimateInput{
			Category:     category,
			FlooringType: flooringType,
			EstimateID:   estimateID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"deletedRowCount": deleted})
	}
}

// NextEstimateVersion previews the version the next create would allocate.
func NextEstimateVersion(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("customerId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customerId query parameter required"))
			return
		}
		flooringType, err := flooringTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		version, err := svc.NextVersion(r.Context(), category, flooringType, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"version": version})
	}
}

// EstimateSummary aggregates the caller's visible headers for a category.
func EstimateSummary(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flooringType, err := flooringTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), estimates.ListEstimatesInput{
			Category:     category,
			FlooringType: flooringType,
			CallerID:     callerID,
			Grants:       middleware.PermissionsFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AssignedEstimates lists every estimate assigned to the caller across all
// categories.
func AssignedEstimates(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assigned, err := svc.ListAssigned(r.Context(), callerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assigned)
	}
}

// PromoteEstimate advances the caller's estimate to the next stage.
func PromoteEstimate(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req promoteEstimateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flooringType, err := flooringTypeFromString(req.FlooringType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := engine.Promote(r.Context(), workflow.PromoteInput{
			Category:     category,
			FlooringType: flooringType,
			ActorID:      callerID,
			Version:      req.Version,
			// Unrecognized stage strings pass through so the engine
			// reports them as disallowed transitions, not bad input.
			CurrentStage: enums.Stage(req.CurrentStage),
			AssignedTo:   req.AssignedTo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
