package anticheat

import (
	"time"

	"github.com/google/uuid"

	"github.com/arenapulse/anticheat-backend/internal/domain/behavior"
)

// SessionSummary is the intake contract from the session summarizer: one
// pre-aggregated record per completed gameplay session. Numeric fields
// default to zero when the summarizer could not compute them; only the
// player and the session interval are mandatory.
type SessionSummary struct {
	PlayerID  uuid.UUID  `json:"player_id" validate:"required"`
	MatchID   *uuid.UUID `json:"match_id,omitempty"`
	MatchType string     `json:"match_type,omitempty" validate:"omitempty,oneof=ranked ladder tournament casual"`

	SessionStart time.Time `json:"session_start" validate:"required"`
	SessionEnd   time.Time `json:"session_end" validate:"required,gtefield=SessionStart"`

	AvgMouseVelocity  float64 `json:"avg_mouse_velocity" validate:"gte=0"`
	MaxMouseVelocity  float64 `json:"max_mouse_velocity" validate:"gte=0"`
	VelocityStdDev    float64 `json:"velocity_std_dev" validate:"gte=0"`
	AvgAcceleration   float64 `json:"avg_acceleration" validate:"gte=0"`
	MaxAcceleration   float64 `json:"max_acceleration" validate:"gte=0"`
	DirectionChanges  int     `json:"direction_changes" validate:"gte=0"`
	MicroCorrections  int     `json:"micro_corrections" validate:"gte=0"`
	StraightLineRatio float64 `json:"straight_line_ratio" validate:"gte=0,lte=100"`
	ClickAccuracyZone float64 `json:"click_accuracy_zone" validate:"gte=0,lte=100"`

	AvgReactionTime    float64 `json:"avg_reaction_time" validate:"gte=0"`
	MinReactionTime    float64 `json:"min_reaction_time" validate:"gte=0"`
	ReactionTimeStdDev float64 `json:"reaction_time_std_dev" validate:"gte=0"`

	AvgKeyHoldDuration    float64 `json:"avg_key_hold_duration" validate:"gte=0"`
	KeysPerMinute         float64 `json:"keys_per_minute" validate:"gte=0"`
	KeyPatternConsistency float64 `json:"key_pattern_consistency" validate:"gte=0,lte=100"`

	AimSnapScore        float64 `json:"aim_snap_score" validate:"gte=0,lte=100"`
	ConsistencyScore    float64 `json:"consistency_score" validate:"gte=0,lte=100"`
	ReactionScore       float64 `json:"reaction_score" validate:"gte=0,lte=100"`
	OverallAnomalyScore float64 `json:"overall_anomaly_score" validate:"gte=0,lte=100"`

	SampleCount int `json:"sample_count" validate:"gte=0"`
}

// toSession converts the intake record into the domain session value.
func (s *SessionSummary) toSession() behavior.Session {
	return behavior.Session{
		ID:           uuid.New(),
		MatchID:      s.MatchID,
		MatchType:    behavior.MatchType(s.MatchType),
		SessionStart: s.SessionStart,
		SessionEnd:   s.SessionEnd,
		Duration:     s.SessionEnd.Sub(s.SessionStart),
		Metrics: behavior.SessionMetrics{
			AvgMouseVelocity:      s.AvgMouseVelocity,
			MaxMouseVelocity:      s.MaxMouseVelocity,
			VelocityStdDev:        s.VelocityStdDev,
			AvgAcceleration:       s.AvgAcceleration,
			MaxAcceleration:       s.MaxAcceleration,
			DirectionChanges:      s.DirectionChanges,
			MicroCorrections:      s.MicroCorrections,
			StraightLineRatio:     s.StraightLineRatio,
			ClickAccuracyZone:     s.ClickAccuracyZone,
			AvgReactionTime:       s.AvgReactionTime,
			MinReactionTime:       s.MinReactionTime,
			ReactionTimeStdDev:    s.ReactionTimeStdDev,
			AvgKeyHoldDuration:    s.AvgKeyHoldDuration,
			KeysPerMinute:         s.KeysPerMinute,
			KeyPatternConsistency: s.KeyPatternConsistency,
		},
		Scores: behavior.AnomalyScores{
			AimSnap:     s.AimSnapScore,
			Consistency: s.ConsistencyScore,
			Reaction:    s.ReactionScore,
			Overall:     s.OverallAnomalyScore,
		},
		SampleCount: s.SampleCount,
	}
}

// ReviewRequest is a reviewer's decision on a historical anomaly entry.
type ReviewRequest struct {
	ReviewerID    uuid.UUID `json:"reviewer_id" validate:"required"`
	Notes         string    `json:"notes,omitempty" validate:"max=2000"`
	FalsePositive bool      `json:"false_positive"`
}
