package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/domain/behavior"
	domainerrors "github.com/arenapulse/anticheat-backend/internal/domain/errors"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

// ProfileRepository implements anticheat.ProfileRepository on PostgreSQL.
// The profile document is stored as JSONB with a version column for
// optimistic concurrency; a few columns are lifted out for indexing.
type ProfileRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ anticheat.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{pool: pool, logger: logger}
}

// Init bootstraps the schema. Indexes mirror the query patterns of the
// review tooling: lowest trust first, most recent anomalies first.
func (r *ProfileRepository) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS behavioral_profiles (
			player_id UUID PRIMARY KEY,
			profile JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 1,
			trust_score INT NOT NULL,
			total_anomalies INT NOT NULL,
			last_anomaly_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_behavioral_profiles_trust
			ON behavioral_profiles(trust_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_behavioral_profiles_last_anomaly
			ON behavioral_profiles(last_anomaly_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_behavioral_profiles_anomalies
			ON behavioral_profiles(total_anomalies DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return nil
}

// GetByPlayerID retrieves a profile by player ID.
func (r *ProfileRepository) GetByPlayerID(ctx context.Context, playerID uuid.UUID) (*behavior.Profile, error) {
	query := `
		SELECT profile, version
		FROM behavioral_profiles
		WHERE player_id = $1
	`

	var doc []byte
	var version int64
	err := r.pool.QueryRow(ctx, query, playerID).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.NewNotFoundError("behavioral profile")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile behavior.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	profile.Version = version

	return &profile, nil
}

// Create inserts a fresh profile with version 1. A concurrent first-write
// for the same player surfaces as a retryable conflict.
func (r *ProfileRepository) Create(ctx context.Context, profile *behavior.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO behavioral_profiles (
			player_id, profile, version, trust_score, total_anomalies,
			last_anomaly_at, created_at, updated_at
		) VALUES ($1, $2, 1, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		profile.PlayerID, doc, profile.Trust.Score, profile.TotalAnomaliesDetected,
		profile.LastAnomalyAt, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.NewConflictError("profile already created by concurrent writer")
	}

	profile.Version = 1
	return nil
}

// Update writes the profile back with a compare-and-swap on the version
// column. A mismatch means another session for the same player landed
// first; the caller re-reads and replays.
func (r *ProfileRepository) Update(ctx context.Context, profile *behavior.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		UPDATE behavioral_profiles
		SET profile = $2,
			version = version + 1,
			trust_score = $3,
			total_anomalies = $4,
			last_anomaly_at = $5,
			updated_at = $6
		WHERE player_id = $1 AND version = $7
	`

	tag, err := r.pool.Exec(ctx, query,
		profile.PlayerID, doc, profile.Trust.Score, profile.TotalAnomaliesDetected,
		profile.LastAnomalyAt, profile.UpdatedAt, profile.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.NewConflictError("profile modified by concurrent writer")
	}

	profile.Version++
	return nil
}
