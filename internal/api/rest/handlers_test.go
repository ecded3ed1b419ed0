package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/domain/behavior"
	"github.com/arenapulse/anticheat-backend/internal/domain/errors"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/config"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

const testSecret = "test-secret"

type stubService struct {
	ingestResult *behavior.AnalysisResult
	ingestErr    error
	profile      *behavior.Profile
	profileErr   error
	trustScore   int
	trustErr     error
	anomalies    []behavior.AnomalyRecord
	reviewErr    error
	lastReview   *anticheat.ReviewRequest
}

func (s *stubService) IngestSession(ctx context.Context, summary *anticheat.SessionSummary) (*behavior.AnalysisResult, error) {
	return s.ingestResult, s.ingestErr
}

func (s *stubService) GetProfile(ctx context.Context, playerID uuid.UUID) (*behavior.Profile, error) {
	return s.profile, s.profileErr
}

func (s *stubService) GetTrustScore(ctx context.Context, playerID uuid.UUID) (int, error) {
	return s.trustScore, s.trustErr
}

func (s *stubService) ListAnomalies(ctx context.Context, playerID uuid.UUID) ([]behavior.AnomalyRecord, error) {
	return s.anomalies, s.trustErr
}

func (s *stubService) ReviewAnomaly(ctx context.Context, playerID, anomalyID uuid.UUID, review *anticheat.ReviewRequest) error {
	s.lastReview = review
	return s.reviewErr
}

func newTestHandler(svc anticheat.Service) http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Security: config.SecurityConfig{
			JWTSecret: testSecret,
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 100},
		},
	}
	return NewServer(cfg, svc, zap.NewNop()).httpServer.Handler
}

func reviewerToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHandleIngestSession(t *testing.T) {
	t.Run("returns the verdict", func(t *testing.T) {
		svc := &stubService{ingestResult: &behavior.AnalysisResult{
			IsAnomalous: true,
			RiskLevel:   behavior.RiskHigh,
			Flags:       []behavior.Flag{{Type: behavior.FlagStraightLines}},
		}}
		handler := newTestHandler(svc)

		body, _ := json.Marshal(map[string]interface{}{"player_id": uuid.New()})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result behavior.AnalysisResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.True(t, result.IsAnomalous)
		assert.Equal(t, behavior.RiskHigh, result.RiskLevel)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newTestHandler(&stubService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure from the service", func(t *testing.T) {
		svc := &stubService{ingestErr: errors.NewValidationError("INVALID_SUMMARY", "session summary failed validation")}
		handler := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetTrustScore(t *testing.T) {
	svc := &stubService{trustScore: 83}
	handler := newTestHandler(svc)
	playerID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/"+playerID.String()+"/trust", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PlayerID uuid.UUID `json:"player_id"`
		Score    int       `json:"score"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, playerID, body.PlayerID)
	assert.Equal(t, 83, body.Score)
}

func TestHandleGetProfile(t *testing.T) {
	t.Run("invalid player id", func(t *testing.T) {
		handler := newTestHandler(&stubService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/players/not-a-uuid/profile", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		svc := &stubService{profileErr: errors.NewNotFoundError("behavioral profile")}
		handler := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/players/"+uuid.NewString()+"/profile", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleReviewAnomaly(t *testing.T) {
	playerID := uuid.New()
	anomalyID := uuid.New()
	path := "/api/v1/players/" + playerID.String() + "/anomalies/" + anomalyID.String() + "/review"

	t.Run("rejects requests without a token", func(t *testing.T) {
		handler := newTestHandler(&stubService{})

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects tokens signed with another key", func(t *testing.T) {
		handler := newTestHandler(&stubService{})

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
		signed, err := token.SignedString([]byte("wrong-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte("{}")))
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects non-uuid subjects", func(t *testing.T) {
		handler := newTestHandler(&stubService{})

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte("{}")))
		req.Header.Set("Authorization", "Bearer "+reviewerToken(t, "admin"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("records the decision under the token subject", func(t *testing.T) {
		svc := &stubService{}
		handler := newTestHandler(svc)
		reviewer := uuid.New()

		body := []byte(`{"notes":"cleared after replay review","false_positive":true}`)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+reviewerToken(t, reviewer.String()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastReview)
		assert.Equal(t, reviewer, svc.lastReview.ReviewerID)
		assert.True(t, svc.lastReview.FalsePositive)
		assert.Equal(t, "cleared after replay review", svc.lastReview.Notes)
	})
}

func TestHandleListAnomalies(t *testing.T) {
	svc := &stubService{anomalies: []behavior.AnomalyRecord{
		{ID: uuid.New(), RiskLevel: behavior.RiskCritical},
	}}
	handler := newTestHandler(svc)
	playerID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/"+playerID.String()+"/anomalies", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Anomalies []behavior.AnomalyRecord `json:"anomalies"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Anomalies, 1)
	assert.Equal(t, behavior.RiskCritical, body.Anomalies[0].RiskLevel)
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Security: config.SecurityConfig{
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1},
		},
	}
	handler := NewServer(cfg, &stubService{}, zap.NewNop()).httpServer.Handler

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
