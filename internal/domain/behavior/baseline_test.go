package behavior

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisySession is not a baseline candidate: its composite score is too
// high, though not high enough to raise a flag on its own.
func noisySession(start time.Time) Session {
	s := cleanSession(start)
	s.Scores.Overall = 50
	return s
}

func TestBaselineDefersWithoutEnoughCleanCandidates(t *testing.T) {
	now := time.Now()
	p := NewProfile(uuid.New(), now)

	for i := 0; i < 6; i++ {
		p.AddSession(noisySession(now), now)
	}
	for i := 0; i < 4; i++ {
		p.AddSession(cleanSession(now), now)
	}

	// Ten sessions stored but only four candidates: the estimator defers
	// without error and the profile stays in cold-start mode.
	assert.Len(t, p.Sessions, 10)
	assert.False(t, p.Baseline.Established)

	p.AddSession(cleanSession(now), now)

	require.True(t, p.Baseline.Established)
	assert.Equal(t, 5, p.Baseline.SessionCount)
	assert.Equal(t, 50.0, p.Baseline.Confidence)
}

func TestBaselineAveragesCandidatesOnly(t *testing.T) {
	now := time.Now()
	p := NewProfile(uuid.New(), now)

	for i := 0; i < 5; i++ {
		noisy := noisySession(now)
		noisy.Metrics.AvgMouseVelocity = 30
		p.AddSession(noisy, now)
	}
	for i := 0; i < 5; i++ {
		p.AddSession(cleanSession(now), now)
	}

	require.True(t, p.Baseline.Established)
	assert.Equal(t, 5, p.Baseline.SessionCount)
	assert.InDelta(t, 3.0, p.Baseline.AvgMouseVelocity, 1e-9)
	assert.InDelta(t, 1.2, p.Baseline.AvgVelocityStdDev, 1e-9)
	assert.InDelta(t, 1.5, p.Baseline.AvgAcceleration, 1e-9)
	assert.InDelta(t, 20.0, p.Baseline.AvgStraightLineRatio, 1e-9)
	assert.InDelta(t, 90.0, p.Baseline.AvgKeysPerMinute, 1e-9)
}

func TestBaselineIgnoresLowSampleSessions(t *testing.T) {
	now := time.Now()
	p := NewProfile(uuid.New(), now)

	for i := 0; i < 10; i++ {
		s := cleanSession(now)
		s.SampleCount = 50
		p.AddSession(s, now)
	}

	assert.False(t, p.Baseline.Established)
}
