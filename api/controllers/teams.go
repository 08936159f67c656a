package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenirinteriors/estimation-backend/api/responses"
	"github.com/avenirinteriors/estimation-backend/api/validators"
	"github.com/avenirinteriors/estimation-backend/internal/teams"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
)

type addTeamMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func teamIDFromRequest(r *http.Request) (uuid.UUID, error) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team id")
	}
	return teamID, nil
}

// ListMyTeams returns the teams the caller belongs to.
func ListMyTeams(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mine, err := svc.ListMine(r.Context(), callerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mine)
	}
}

// ListTeamMembers returns the member ids of one team.
func ListTeamMembers(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := teamIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := svc.Members(r.Context(), teamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"memberIds": ids})
	}
}

// AddTeamMember attaches an existing user to a team.
func AddTeamMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := teamIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addTeamMemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := svc.AddMember(r.Context(), teamID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"added": true})
	}
}

// RemoveTeamMember detaches a user from a team.
func RemoveTeamMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := teamIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := svc.RemoveMember(r.Context(), teamID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
