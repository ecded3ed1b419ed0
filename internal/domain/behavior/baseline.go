package behavior

import "time"

const (
	// Sessions stored before the estimator is first consulted.
	minSessionsForBaseline = 10
	// Clean candidates required before the baseline is committed.
	minCleanCandidates = 5
	// A candidate session must score below this and carry enough samples.
	cleanScoreCeiling  = 30.0
	minCandidateSample = 100
	// Each candidate contributes 10 points of confidence, capped at 100.
	confidencePerCandidate = 10.0
	maxConfidence          = 100.0
)

// Baseline is the player's mean behavioral fingerprint, computed once from
// clean history and never revised afterwards. Freezing it is deliberate:
// a recomputed baseline could be poisoned by slowly-escalating cheating.
type Baseline struct {
	Established   bool       `json:"established"`
	EstablishedAt *time.Time `json:"established_at,omitempty"`
	SessionCount  int        `json:"session_count"`

	AvgMouseVelocity      float64 `json:"avg_mouse_velocity"`
	AvgVelocityStdDev     float64 `json:"avg_velocity_std_dev"`
	AvgAcceleration       float64 `json:"avg_acceleration"`
	AvgReactionTime       float64 `json:"avg_reaction_time"`
	AvgReactionTimeStdDev float64 `json:"avg_reaction_time_std_dev"`
	AvgKeysPerMinute      float64 `json:"avg_keys_per_minute"`
	AvgMicroCorrections   float64 `json:"avg_micro_corrections"`
	AvgStraightLineRatio  float64 `json:"avg_straight_line_ratio"`

	Confidence float64 `json:"confidence"` // 0-100
}

// establishBaseline computes the mean fingerprint from stored sessions that
// look clean (low composite score, enough input samples). With fewer than
// five candidates it defers silently and the profile stays in cold-start
// mode; this is not an error. Returns true when the baseline was committed.
func (p *Profile) establishBaseline(now time.Time) bool {
	if p.Baseline.Established {
		return false
	}

	var clean []*Session
	for i := range p.Sessions {
		s := &p.Sessions[i]
		if s.Scores.Overall < cleanScoreCeiling && s.SampleCount >= minCandidateSample {
			clean = append(clean, s)
		}
	}
	if len(clean) < minCleanCandidates {
		return false
	}

	n := float64(len(clean))
	b := Baseline{
		Established:   true,
		EstablishedAt: &now,
		SessionCount:  len(clean),
	}
	for _, s := range clean {
		b.AvgMouseVelocity += s.Metrics.AvgMouseVelocity
		b.AvgVelocityStdDev += s.Metrics.VelocityStdDev
		b.AvgAcceleration += s.Metrics.AvgAcceleration
		b.AvgReactionTime += s.Metrics.AvgReactionTime
		b.AvgReactionTimeStdDev += s.Metrics.ReactionTimeStdDev
		b.AvgKeysPerMinute += s.Metrics.KeysPerMinute
		b.AvgMicroCorrections += float64(s.Metrics.MicroCorrections)
		b.AvgStraightLineRatio += s.Metrics.StraightLineRatio
	}
	b.AvgMouseVelocity /= n
	b.AvgVelocityStdDev /= n
	b.AvgAcceleration /= n
	b.AvgReactionTime /= n
	b.AvgReactionTimeStdDev /= n
	b.AvgKeysPerMinute /= n
	b.AvgMicroCorrections /= n
	b.AvgStraightLineRatio /= n

	b.Confidence = n * confidencePerCandidate
	if b.Confidence > maxConfidence {
		b.Confidence = maxConfidence
	}

	p.Baseline = b
	return true
}
