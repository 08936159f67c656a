package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avenirinteriors/estimation-backend/api/middleware"
	"github.com/avenirinteriors/estimation-backend/internal/workflow"
)

func promoteRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/estimates/woodwork/promote", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("category", "woodwork")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestPromoteEstimate_UnknownStageIsStateConflict(t *testing.T) {
	// Promotion from an unrecognized stage never reaches storage, so a
	// bare engine is enough here.
	handler := PromoteEstimate(workflow.NewEngine(nil, nil, nil, nil, nil, nil), nil)

	req := promoteRequest(t, `{"version":"1.1","currentStage":"Approved"}`)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unrecognized stage, got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("expected STATE_CONFLICT, got %s", envelope.Error.Code)
	}
	if envelope.Error.Details["currentStage"] != "Approved" {
		t.Fatalf("expected offending stage in details, got %v", envelope.Error.Details)
	}
}

func TestPromoteEstimate_TerminalStageIsStateConflict(t *testing.T) {
	handler := PromoteEstimate(workflow.NewEngine(nil, nil, nil, nil, nil, nil), nil)

	req := promoteRequest(t, `{"version":"1.1","currentStage":"Designer"}`)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for terminal stage, got %d", resp.Code)
	}
}
