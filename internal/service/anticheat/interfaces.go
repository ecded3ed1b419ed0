package anticheat

import (
	"context"

	"github.com/google/uuid"

	"github.com/arenapulse/anticheat-backend/internal/domain/behavior"
)

// Service is the behavioral anomaly-detection engine surface.
type Service interface {
	// IngestSession analyzes one session summary, mutates the player's
	// profile and returns the verdict. Profiles are created lazily.
	IngestSession(ctx context.Context, summary *SessionSummary) (*behavior.AnalysisResult, error)
	// GetProfile returns the full behavioral profile for a player.
	GetProfile(ctx context.Context, playerID uuid.UUID) (*behavior.Profile, error)
	// GetTrustScore returns the player's current trust score, cache first.
	GetTrustScore(ctx context.Context, playerID uuid.UUID) (int, error)
	// ListAnomalies returns the retained anomaly history for a player.
	ListAnomalies(ctx context.Context, playerID uuid.UUID) ([]behavior.AnomalyRecord, error)
	// ReviewAnomaly records a reviewer decision on a historical anomaly.
	ReviewAnomaly(ctx context.Context, playerID, anomalyID uuid.UUID, review *ReviewRequest) error
}

// ProfileRepository is the persistence boundary for behavioral profiles.
// Update must fail with a retryable conflict error when the stored version
// no longer matches the loaded one.
type ProfileRepository interface {
	GetByPlayerID(ctx context.Context, playerID uuid.UUID) (*behavior.Profile, error)
	Create(ctx context.Context, profile *behavior.Profile) error
	Update(ctx context.Context, profile *behavior.Profile) error
}

// TrustScoreCache is a best-effort read cache for trust scores.
type TrustScoreCache interface {
	Get(ctx context.Context, playerID uuid.UUID) (int, bool, error)
	Set(ctx context.Context, playerID uuid.UUID, score int) error
}
