package behavior

import (
	"time"

	"github.com/google/uuid"
)

// MatchType identifies the competitive context a session was recorded in.
type MatchType string

const (
	MatchTypeRanked     MatchType = "ranked"
	MatchTypeLadder     MatchType = "ladder"
	MatchTypeTournament MatchType = "tournament"
	MatchTypeCasual     MatchType = "casual"
)

// RiskLevel is the aggregated verdict tier for a session.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// Severity grades a single flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Flag types raised by the analyzers.
const (
	FlagInhumanReaction   = "inhuman_reaction"
	FlagTooConsistent     = "too_consistent"
	FlagStraightLines     = "straight_lines"
	FlagVelocityDeviation = "velocity_deviation"
	FlagAccelerationSpike = "acceleration_spike"
	FlagReactionTime      = "reaction_time"
	FlagLackCorrections   = "lack_corrections"
)

// Flag is a single rule violation with its severity and the values involved.
type Flag struct {
	Type        string   `json:"flag_type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Value       float64  `json:"value"`
	Threshold   float64  `json:"threshold"`
}

// AnalysisResult is the verdict attached to a session at append time.
// It is computed exactly once and never revised.
type AnalysisResult struct {
	IsAnomalous       bool      `json:"is_anomalous"`
	RiskLevel         RiskLevel `json:"risk_level"`
	BaselineDeviation float64   `json:"baseline_deviation"`
	Flags             []Flag    `json:"flags"`
}

// SessionMetrics carries the per-session input aggregates produced by the
// session summarizer. All fields default to zero when the summarizer could
// not compute them.
type SessionMetrics struct {
	// Mouse kinematics
	AvgMouseVelocity  float64 `json:"avg_mouse_velocity"`
	MaxMouseVelocity  float64 `json:"max_mouse_velocity"`
	VelocityStdDev    float64 `json:"velocity_std_dev"`
	AvgAcceleration   float64 `json:"avg_acceleration"`
	MaxAcceleration   float64 `json:"max_acceleration"`
	DirectionChanges  int     `json:"direction_changes"`
	MicroCorrections  int     `json:"micro_corrections"`
	StraightLineRatio float64 `json:"straight_line_ratio"` // percent, 0-100
	ClickAccuracyZone float64 `json:"click_accuracy_zone"`

	// Reaction latency (milliseconds)
	AvgReactionTime    float64 `json:"avg_reaction_time"`
	MinReactionTime    float64 `json:"min_reaction_time"`
	ReactionTimeStdDev float64 `json:"reaction_time_std_dev"`

	// Keystroke cadence
	AvgKeyHoldDuration    float64 `json:"avg_key_hold_duration"`
	KeysPerMinute         float64 `json:"keys_per_minute"`
	KeyPatternConsistency float64 `json:"key_pattern_consistency"`
}

// AnomalyScores are the summarizer-computed sub-scores plus the composite
// score, each 0-100. They are trusted input and never recomputed here.
type AnomalyScores struct {
	AimSnap     float64 `json:"aim_snap_score"`
	Consistency float64 `json:"consistency_score"`
	Reaction    float64 `json:"reaction_score"`
	Overall     float64 `json:"overall_anomaly_score"`
}

// Session is one aggregated summary of player input behavior over a single
// gameplay interval. Immutable once appended to a profile, except that its
// Analysis is filled in at append time.
type Session struct {
	ID           uuid.UUID      `json:"id"`
	MatchID      *uuid.UUID     `json:"match_id,omitempty"`
	MatchType    MatchType      `json:"match_type,omitempty"`
	SessionStart time.Time      `json:"session_start"`
	SessionEnd   time.Time      `json:"session_end"`
	Duration     time.Duration  `json:"duration"`
	Metrics      SessionMetrics `json:"metrics"`
	Scores       AnomalyScores  `json:"scores"`
	SampleCount  int            `json:"sample_count"`
	Analysis     AnalysisResult `json:"analysis_result"`
}
