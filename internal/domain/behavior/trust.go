package behavior

import "time"

const (
	initialTrustScore = 50
	trustCleanReward  = 1
	trustFlagPenalty  = 5
	minTrustScore     = 0
	maxTrustScore     = 100
)

// TrustScore is a slowly-evolving 0-100 reputation value. Clean sessions
// nudge it up by one, flagged sessions knock it down by five.
type TrustScore struct {
	Score           int       `json:"score"`
	CleanSessions   int       `json:"clean_sessions"`
	FlaggedSessions int       `json:"flagged_sessions"`
	LastUpdated     time.Time `json:"last_updated"`
}

func (t *TrustScore) recordClean(now time.Time) {
	t.CleanSessions++
	t.Score += trustCleanReward
	if t.Score > maxTrustScore {
		t.Score = maxTrustScore
	}
	t.LastUpdated = now
}

func (t *TrustScore) recordFlagged(now time.Time) {
	t.FlaggedSessions++
	t.Score -= trustFlagPenalty
	if t.Score < minTrustScore {
		t.Score = minTrustScore
	}
	t.LastUpdated = now
}
