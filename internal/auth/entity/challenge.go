package entity

import (
	"crypto/subtle"
	"time"
)

// ChallengeState is derived from the used flag and the expiry window,
// never stored.
type ChallengeState int

const (
	ChallengePending ChallengeState = iota
	ChallengeExpired
	ChallengeConsumed
)

// Challenge is one row of the append-only OTP ledger. Rows are never
// deleted and token/code never change after insert.
type Challenge struct {
	ID         int64
	UserID     int64
	Identifier string
	Channel    Channel
	Token      string
	Code       string
	Used       bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// State derives the challenge lifecycle state at the given instant.
// Consumed wins over Expired, both are terminal.
func (c Challenge) State(now time.Time) ChallengeState {
	if c.Used {
		return ChallengeConsumed
	}

	if !now.Before(c.ExpiresAt) {
		return ChallengeExpired
	}

	return ChallengePending
}

// RemainingSeconds reports how long the challenge stays valid, rounded up.
// Zero once expired.
func (c Challenge) RemainingSeconds(now time.Time) int64 {
	remain := c.ExpiresAt.Sub(now)
	if remain <= 0 {
		return 0
	}

	return int64((remain + time.Second - 1) / time.Second)
}

// CodeMatches compares the submitted code in constant time.
func (c Challenge) CodeMatches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}
