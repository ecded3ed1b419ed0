package anticheat

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/domain/behavior"
	"github.com/arenapulse/anticheat-backend/internal/domain/errors"
	"github.com/arenapulse/anticheat-backend/internal/metrics"
)

// maxConflictRetries bounds the re-read-and-replay loop on concurrent
// writes to the same profile. Conflicts are rare (one player, overlapping
// match contexts) so a small bound suffices.
const maxConflictRetries = 3

// service implements the Service interface
type service struct {
	repo     ProfileRepository
	cache    TrustScoreCache
	validate *validator.Validate
	logger   *zap.Logger
	clock    func() time.Time
}

// NewService creates the anomaly-detection service. The cache is optional;
// a nil cache disables trust-score caching.
func NewService(repo ProfileRepository, cache TrustScoreCache, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
		clock:    time.Now,
	}
}

// IngestSession validates the summary, loads (or lazily creates) the
// player's profile, runs the analysis and persists the mutated profile.
// Concurrent writers for the same player are resolved by optimistic
// concurrency: on a version conflict the profile is re-read and the
// mutation replayed.
func (s *service) IngestSession(ctx context.Context, summary *SessionSummary) (*behavior.AnalysisResult, error) {
	if summary == nil {
		return nil, errors.NewValidationError("INVALID_SUMMARY", "session summary cannot be nil")
	}
	if err := s.validate.Struct(summary); err != nil {
		return nil, errors.NewValidationError("INVALID_SUMMARY", "session summary failed validation").WithCause(err)
	}

	var result behavior.AnalysisResult
	var trustScore int

	for attempt := 0; ; attempt++ {
		now := s.clock()

		profile, err := s.repo.GetByPlayerID(ctx, summary.PlayerID)
		created := false
		if err != nil {
			if !errors.IsType(err, errors.ErrorTypeNotFound) {
				return nil, errors.Wrap(err, "loading profile")
			}
			profile = behavior.NewProfile(summary.PlayerID, now)
			created = true
		}

		hadBaseline := profile.Baseline.Established
		result = profile.AddSession(summary.toSession(), now)

		if created {
			err = s.repo.Create(ctx, profile)
		} else {
			err = s.repo.Update(ctx, profile)
		}
		if err == nil {
			trustScore = profile.Trust.Score
			if !hadBaseline && profile.Baseline.Established {
				metrics.BaselinesEstablished.Inc()
				s.logger.Info("baseline established",
					zap.String("player_id", summary.PlayerID.String()),
					zap.Int("clean_sessions", profile.Baseline.SessionCount),
					zap.Float64("confidence", profile.Baseline.Confidence))
			}
			break
		}
		if errors.IsType(err, errors.ErrorTypeConflict) && attempt < maxConflictRetries {
			metrics.IngestConflicts.Inc()
			s.logger.Debug("profile write conflict, retrying",
				zap.String("player_id", summary.PlayerID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, errors.Wrap(err, "saving profile")
	}

	metrics.SessionsAnalyzed.WithLabelValues(string(result.RiskLevel)).Inc()
	if result.IsAnomalous {
		metrics.AnomaliesDetected.WithLabelValues(string(result.RiskLevel)).Inc()
		s.logger.Warn("anomalous session detected",
			zap.String("player_id", summary.PlayerID.String()),
			zap.String("risk_level", string(result.RiskLevel)),
			zap.Int("flags", len(result.Flags)),
			zap.Float64("baseline_deviation", result.BaselineDeviation))
	}

	if s.cache != nil {
		// Best effort: a stale cache entry only delays a trust read.
		if err := s.cache.Set(ctx, summary.PlayerID, trustScore); err != nil {
			s.logger.Debug("trust cache update failed", zap.Error(err))
		}
	}

	return &result, nil
}

// GetProfile returns the full behavioral profile for a player.
func (s *service) GetProfile(ctx context.Context, playerID uuid.UUID) (*behavior.Profile, error) {
	profile, err := s.repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetTrustScore serves the trust score from cache when possible.
func (s *service) GetTrustScore(ctx context.Context, playerID uuid.UUID) (int, error) {
	if s.cache != nil {
		if score, ok, err := s.cache.Get(ctx, playerID); err == nil && ok {
			return score, nil
		}
	}

	profile, err := s.repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, playerID, profile.Trust.Score); err != nil {
			s.logger.Debug("trust cache update failed", zap.Error(err))
		}
	}
	return profile.Trust.Score, nil
}

// ListAnomalies returns the retained anomaly history for a player.
func (s *service) ListAnomalies(ctx context.Context, playerID uuid.UUID) ([]behavior.AnomalyRecord, error) {
	profile, err := s.repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return profile.AnomalyHistory, nil
}

// ReviewAnomaly records a reviewer decision on a historical anomaly entry,
// replaying on write conflicts like ingest does.
func (s *service) ReviewAnomaly(ctx context.Context, playerID, anomalyID uuid.UUID, review *ReviewRequest) error {
	if review == nil {
		return errors.NewValidationError("INVALID_REVIEW", "review cannot be nil")
	}
	if err := s.validate.Struct(review); err != nil {
		return errors.NewValidationError("INVALID_REVIEW", "review failed validation").WithCause(err)
	}

	for attempt := 0; ; attempt++ {
		profile, err := s.repo.GetByPlayerID(ctx, playerID)
		if err != nil {
			return err
		}

		if err := profile.ReviewAnomaly(anomalyID, review.ReviewerID, review.Notes, review.FalsePositive, s.clock()); err != nil {
			return errors.NewNotFoundError("anomaly record").WithCause(err)
		}

		err = s.repo.Update(ctx, profile)
		if err == nil {
			s.logger.Info("anomaly reviewed",
				zap.String("player_id", playerID.String()),
				zap.String("anomaly_id", anomalyID.String()),
				zap.Bool("false_positive", review.FalsePositive))
			return nil
		}
		if errors.IsType(err, errors.ErrorTypeConflict) && attempt < maxConflictRetries {
			continue
		}
		return errors.Wrap(err, "saving review")
	}
}
