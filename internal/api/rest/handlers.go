package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/domain/errors"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

// handlers exposes the engine's intake and query surface.
type handlers struct {
	svc    anticheat.Service
	logger *zap.Logger
}

// handleIngestSession accepts one session summary from the summarizer.
func (h *handlers) handleIngestSession(w http.ResponseWriter, r *http.Request) {
	var summary anticheat.SessionSummary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		h.writeError(w, errors.NewValidationError("INVALID_BODY", "malformed session summary").WithCause(err))
		return
	}

	result, err := h.svc.IngestSession(r.Context(), &summary)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// handleGetProfile returns the full behavioral profile.
func (h *handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.pathUUID(w, r, "playerID")
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), playerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

// handleGetTrustScore returns the player's current trust score.
func (h *handlers) handleGetTrustScore(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.pathUUID(w, r, "playerID")
	if !ok {
		return
	}

	score, err := h.svc.GetTrustScore(r.Context(), playerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"score":     score,
	})
}

// handleListAnomalies returns the retained anomaly history.
func (h *handlers) handleListAnomalies(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.pathUUID(w, r, "playerID")
	if !ok {
		return
	}

	anomalies, err := h.svc.ListAnomalies(r.Context(), playerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"anomalies": anomalies,
	})
}

// handleReviewAnomaly records a reviewer decision. The reviewer identity
// comes from the bearer token, not the request body.
func (h *handlers) handleReviewAnomaly(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.pathUUID(w, r, "playerID")
	if !ok {
		return
	}
	anomalyID, ok := h.pathUUID(w, r, "anomalyID")
	if !ok {
		return
	}

	reviewerID, ok := reviewerFromContext(r.Context())
	if !ok {
		h.writeError(w, errors.NewValidationError("MISSING_REVIEWER", "reviewer identity not resolved"))
		return
	}

	var body struct {
		Notes         string `json:"notes"`
		FalsePositive bool   `json:"false_positive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, errors.NewValidationError("INVALID_BODY", "malformed review").WithCause(err))
		return
	}

	review := &anticheat.ReviewRequest{
		ReviewerID:    reviewerID,
		Notes:         body.Notes,
		FalsePositive: body.FalsePositive,
	}
	if err := h.svc.ReviewAnomaly(r.Context(), playerID, anomalyID, review); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"reviewed": true})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.writeError(w, errors.NewValidationError("INVALID_ID", "invalid "+name).WithCause(err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", zap.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := errors.GetStatusCode(err)
	if status >= 500 {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
