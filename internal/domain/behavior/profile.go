package behavior

import (
	"time"

	"github.com/google/uuid"
)

const (
	maxStoredSessions = 50
	maxAnomalyRecords = 100
)

// Profile is the per-player behavioral ledger: a rolling window of
// analyzed sessions, the flagged-anomaly history, the one-shot baseline
// and the evolving trust score. One profile exists per player; it is
// created lazily on the first session and never deleted by this engine.
type Profile struct {
	PlayerID uuid.UUID `json:"player_id"`

	Baseline       Baseline        `json:"baseline"`
	Sessions       []Session       `json:"sessions"`
	AnomalyHistory []AnomalyRecord `json:"anomaly_history"`

	TotalSessionsRecorded  int        `json:"total_sessions_recorded"`
	TotalAnomaliesDetected int        `json:"total_anomalies_detected"`
	LastSessionAt          *time.Time `json:"last_session_at,omitempty"`
	LastAnomalyAt          *time.Time `json:"last_anomaly_at,omitempty"`

	Trust TrustScore `json:"trust_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is the optimistic-concurrency token managed by the
	// repository; it never round-trips through the profile document.
	Version int64 `json:"-"`
}

// NewProfile creates an empty profile for a player. The trust score
// starts at the neutral midpoint.
func NewProfile(playerID uuid.UUID, now time.Time) *Profile {
	return &Profile{
		PlayerID:       playerID,
		Sessions:       []Session{},
		AnomalyHistory: []AnomalyRecord{},
		Trust: TrustScore{
			Score:       initialTrustScore,
			LastUpdated: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddSession analyzes a session summary, appends it to the rolling window
// and applies every side effect in order: eviction, counters, the
// opportunistic baseline attempt, anomaly recording and the trust nudge.
// The returned result is the one stored on the appended session.
func (p *Profile) AddSession(s Session, now time.Time) AnalysisResult {
	s.Analysis = Analyze(s.Metrics, s.Scores, p.Baseline)

	p.Sessions = append(p.Sessions, s)
	if len(p.Sessions) > maxStoredSessions {
		p.Sessions = p.Sessions[1:]
	}

	p.TotalSessionsRecorded++
	p.LastSessionAt = &now

	if !p.Baseline.Established && len(p.Sessions) >= minSessionsForBaseline {
		p.establishBaseline(now)
	}

	if s.Analysis.IsAnomalous {
		p.TotalAnomaliesDetected++
		p.LastAnomalyAt = &now
		p.AnomalyHistory = append(p.AnomalyHistory, AnomalyRecord{
			ID:           uuid.New(),
			SessionIndex: len(p.Sessions) - 1,
			DetectedAt:   now,
			MatchID:      s.MatchID,
			AnomalyScore: s.Scores.Overall,
			RiskLevel:    s.Analysis.RiskLevel,
			Flags:        s.Analysis.Flags,
		})
		if len(p.AnomalyHistory) > maxAnomalyRecords {
			p.AnomalyHistory = p.AnomalyHistory[1:]
		}
		p.Trust.recordFlagged(now)
	} else {
		p.Trust.recordClean(now)
	}

	p.UpdatedAt = now
	return s.Analysis
}
