package behavior

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnomalyRecord is one flagged session retained for human review.
type AnomalyRecord struct {
	ID uuid.UUID `json:"id"`
	// SessionIndex is the position inside the rolling session window at
	// the moment of detection; older evictions may shift what it points
	// at, which matches how review tooling has always treated it.
	SessionIndex int        `json:"session_index"`
	DetectedAt   time.Time  `json:"detected_at"`
	MatchID      *uuid.UUID `json:"match_id,omitempty"`
	AnomalyScore float64    `json:"anomaly_score"`
	RiskLevel    RiskLevel  `json:"risk_level"`
	Flags        []Flag     `json:"flags"`
	Review       Review     `json:"review"`
}

// Review is the human-review sub-record. The engine never resolves or
// expires anomalies itself; entries accumulate unreviewed until an
// external reviewer acts.
type Review struct {
	Reviewed      bool       `json:"reviewed"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	FalsePositive bool       `json:"false_positive"`
}

var ErrAnomalyNotFound = fmt.Errorf("anomaly record not found")

// ReviewAnomaly marks a historical anomaly entry as reviewed. Verdicts are
// never recomputed; a false positive stays on record with the marker set.
func (p *Profile) ReviewAnomaly(anomalyID, reviewerID uuid.UUID, notes string, falsePositive bool, now time.Time) error {
	for i := range p.AnomalyHistory {
		if p.AnomalyHistory[i].ID != anomalyID {
			continue
		}
		p.AnomalyHistory[i].Review = Review{
			Reviewed:      true,
			ReviewedBy:    &reviewerID,
			ReviewedAt:    &now,
			Notes:         notes,
			FalsePositive: falsePositive,
		}
		p.UpdatedAt = now
		return nil
	}
	return ErrAnomalyNotFound
}
