package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallengeState(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ch := Challenge{
		Code:      "123456",
		CreatedAt: base,
		ExpiresAt: base.Add(120 * time.Second),
	}

	assert.Equal(t, ChallengePending, ch.State(base))
	assert.Equal(t, ChallengePending, ch.State(base.Add(119*time.Second)))
	assert.Equal(t, ChallengeExpired, ch.State(base.Add(120*time.Second)))
	assert.Equal(t, ChallengeExpired, ch.State(base.Add(time.Hour)))

	ch.Used = true
	assert.Equal(t, ChallengeConsumed, ch.State(base))
	assert.Equal(t, ChallengeConsumed, ch.State(base.Add(time.Hour)), "consumed wins over expired")
}

func TestChallengeRemainingSeconds(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ch := Challenge{CreatedAt: base, ExpiresAt: base.Add(120 * time.Second)}

	assert.Equal(t, int64(120), ch.RemainingSeconds(base))
	assert.Equal(t, int64(90), ch.RemainingSeconds(base.Add(30*time.Second)))
	assert.Equal(t, int64(1), ch.RemainingSeconds(base.Add(119*time.Second+500*time.Millisecond)), "rounds up")
	assert.Equal(t, int64(0), ch.RemainingSeconds(base.Add(120*time.Second)))
	assert.Equal(t, int64(0), ch.RemainingSeconds(base.Add(time.Hour)))
}

func TestChallengeCodeMatches(t *testing.T) {
	ch := Challenge{Code: "654321"}

	assert.True(t, ch.CodeMatches("654321"))
	assert.False(t, ch.CodeMatches("654320"))
	assert.False(t, ch.CodeMatches(""))
	assert.False(t, ch.CodeMatches("6543210"))
}
