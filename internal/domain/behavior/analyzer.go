package behavior

import (
	"fmt"
	"math"
)

// Absolute thresholds applied before a baseline exists. Values are
// empirically chosen; a consistent sub-80ms reaction floor is beyond
// human motor latency.
const (
	inhumanReactionFloorMs   = 80.0
	consistencyStdDevFloor   = 0.3
	consistencyVelocityGate  = 2.0
	coldStraightLinePct      = 60.0
	coldStraightLineCritical = 75.0
)

// Relative thresholds applied once a baseline is established.
const (
	velocityDeviationPct      = 100.0
	velocityDeviationHighPct  = 200.0
	accelDeviationPct         = 150.0
	accelDeviationCriticalPct = 300.0
	reactionFasterMs          = 50.0
	reactionFasterCriticalMs  = 100.0
	straightLinePct           = 50.0
	straightLineCriticalPct   = 70.0
	microCorrectionFraction   = 0.3
	defaultMicroCorrections   = 50.0
)

// Composite-score escalation applied on the baseline path. The
// summarizer's composite score can only raise a verdict, never lower it.
const (
	compositeAnomalousScore = 70.0
	compositeCriticalScore  = 85.0
	compositeSingleFlagGate = 50.0
)

// Analyze scores a session's metrics, dispatching on whether a
// personalized baseline exists yet. It is a pure function with no side
// effects on the profile.
func Analyze(m SessionMetrics, scores AnomalyScores, b Baseline) AnalysisResult {
	if !b.Established {
		return analyzeAbsolute(m, scores)
	}
	return analyzeAgainstBaseline(m, scores, b)
}

// analyzeAbsolute is the cold-start path: fixed thresholds only, no
// baseline deviation is computable.
func analyzeAbsolute(m SessionMetrics, scores AnomalyScores) AnalysisResult {
	result := AnalysisResult{RiskLevel: RiskNone, Flags: []Flag{}}

	if m.MinReactionTime < inhumanReactionFloorMs {
		result.Flags = append(result.Flags, Flag{
			Type:        FlagInhumanReaction,
			Description: fmt.Sprintf("minimum reaction time %.0fms is below the %.0fms human floor", m.MinReactionTime, inhumanReactionFloorMs),
			Severity:    SeverityCritical,
			Value:       m.MinReactionTime,
			Threshold:   inhumanReactionFloorMs,
		})
	}

	if m.VelocityStdDev < consistencyStdDevFloor && m.AvgMouseVelocity > consistencyVelocityGate {
		result.Flags = append(result.Flags, Flag{
			Type:        FlagTooConsistent,
			Description: fmt.Sprintf("mouse motion too uniform (std dev %.2f at mean velocity %.2f)", m.VelocityStdDev, m.AvgMouseVelocity),
			Severity:    SeverityHigh,
			Value:       m.VelocityStdDev,
			Threshold:   consistencyStdDevFloor,
		})
	}

	if m.StraightLineRatio > coldStraightLinePct {
		severity := SeverityHigh
		if m.StraightLineRatio > coldStraightLineCritical {
			severity = SeverityCritical
		}
		result.Flags = append(result.Flags, Flag{
			Type:        FlagStraightLines,
			Description: fmt.Sprintf("%.0f%% of movements in straight lines", m.StraightLineRatio),
			Severity:    severity,
			Value:       m.StraightLineRatio,
			Threshold:   coldStraightLinePct,
		})
	}

	deriveVerdict(&result, scores.Overall)
	return result
}

// analyzeAgainstBaseline compares session metrics against the player's
// established baseline. Signals whose baseline value is zero are skipped
// and excluded from the deviation average rather than counted as zero.
func analyzeAgainstBaseline(m SessionMetrics, scores AnomalyScores, b Baseline) AnalysisResult {
	result := AnalysisResult{RiskLevel: RiskNone, Flags: []Flag{}}

	var totalDeviation float64
	var deviationCount int

	if b.AvgMouseVelocity > 0 {
		dev := math.Abs(m.AvgMouseVelocity-b.AvgMouseVelocity) / b.AvgMouseVelocity * 100
		if dev > velocityDeviationPct {
			severity := SeverityMedium
			if dev > velocityDeviationHighPct {
				severity = SeverityHigh
			}
			result.Flags = append(result.Flags, Flag{
				Type:        FlagVelocityDeviation,
				Description: fmt.Sprintf("mouse velocity %.0f%% off the player baseline", dev),
				Severity:    severity,
				Value:       m.AvgMouseVelocity,
				Threshold:   b.AvgMouseVelocity,
			})
		}
		totalDeviation += dev
		deviationCount++
	}

	if b.AvgAcceleration > 0 {
		dev := math.Abs(m.AvgAcceleration-b.AvgAcceleration) / b.AvgAcceleration * 100
		if dev > accelDeviationPct {
			// Acceleration spikes track sudden assisted aim corrections.
			severity := SeverityHigh
			if dev > accelDeviationCriticalPct {
				severity = SeverityCritical
			}
			result.Flags = append(result.Flags, Flag{
				Type:        FlagAccelerationSpike,
				Description: fmt.Sprintf("acceleration %.0f%% above baseline (possible aim snaps)", dev),
				Severity:    severity,
				Value:       m.AvgAcceleration,
				Threshold:   b.AvgAcceleration,
			})
		}
		totalDeviation += dev
		deviationCount++
	}

	if b.AvgReactionTime > 0 && m.AvgReactionTime > 0 {
		// Asymmetric on purpose: only faster-than-baseline reactions are
		// suspicious. A slower session is never flagged.
		faster := b.AvgReactionTime - m.AvgReactionTime
		if faster > reactionFasterMs {
			severity := SeverityHigh
			if faster > reactionFasterCriticalMs {
				severity = SeverityCritical
			}
			result.Flags = append(result.Flags, Flag{
				Type:        FlagReactionTime,
				Description: fmt.Sprintf("reaction time %.0fms faster than usual", faster),
				Severity:    severity,
				Value:       m.AvgReactionTime,
				Threshold:   b.AvgReactionTime,
			})
		}
		dev := math.Abs(faster) / b.AvgReactionTime * 100
		totalDeviation += dev
		deviationCount++
	}

	if m.StraightLineRatio > straightLinePct {
		severity := SeverityHigh
		if m.StraightLineRatio > straightLineCriticalPct {
			severity = SeverityCritical
		}
		result.Flags = append(result.Flags, Flag{
			Type:        FlagStraightLines,
			Description: fmt.Sprintf("%.0f%% of movements in straight lines", m.StraightLineRatio),
			Severity:    severity,
			Value:       m.StraightLineRatio,
			Threshold:   straightLinePct,
		})
	}

	expectedMicro := b.AvgMicroCorrections
	if expectedMicro == 0 {
		expectedMicro = defaultMicroCorrections
	}
	if float64(m.MicroCorrections) < expectedMicro*microCorrectionFraction {
		result.Flags = append(result.Flags, Flag{
			Type:        FlagLackCorrections,
			Description: "micro-corrections well below the player's usual rate",
			Severity:    SeverityMedium,
			Value:       float64(m.MicroCorrections),
			Threshold:   expectedMicro,
		})
	}

	if deviationCount > 0 {
		result.BaselineDeviation = totalDeviation / float64(deviationCount)
	}

	deriveVerdict(&result, scores.Overall)

	// Composite-score escalation: the summarizer's overall score forces
	// the verdict upward but never suppresses a tier already reached.
	if scores.Overall >= compositeAnomalousScore {
		result.IsAnomalous = true
		forced := RiskHigh
		if scores.Overall >= compositeCriticalScore {
			forced = RiskCritical
		}
		if forced.rank() > result.RiskLevel.rank() {
			result.RiskLevel = forced
		}
	}

	return result
}

// deriveVerdict maps the collected flags to a risk tier. Shared by both
// analyzers: any critical flag dominates, two or more flags of any
// severity read as high, and a lone flag only becomes anomalous when the
// composite score backs it up.
func deriveVerdict(result *AnalysisResult, overallScore float64) {
	hasCritical := false
	for _, f := range result.Flags {
		if f.Severity == SeverityCritical {
			hasCritical = true
			break
		}
	}

	switch {
	case hasCritical:
		result.RiskLevel = RiskCritical
		result.IsAnomalous = true
	case len(result.Flags) >= 2:
		result.RiskLevel = RiskHigh
		result.IsAnomalous = true
	case len(result.Flags) == 1:
		result.RiskLevel = RiskMedium
		result.IsAnomalous = overallScore >= compositeSingleFlagGate
	}
}
