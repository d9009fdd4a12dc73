package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendExpiredChallenge(t *testing.T) {
	f := newFixture(t)
	prior := pendingChallenge(tokenB)
	prior.CreatedAt = testNow.Add(-5 * time.Minute)
	prior.ExpiresAt = testNow.Add(-3 * time.Minute)
	f.seedChallenge(prior)

	out, err := f.uc.Resend(context.Background(), ResendInput{Token: tokenB})
	require.NoError(t, err)

	// A brand-new token is minted, the dead one is not revived.
	assert.Equal(t, tokenA, out.Token)
	assert.NotEqual(t, prior.Token, out.Token)
	assert.Zero(t, out.RemainingSeconds)

	require.Len(t, f.disp.sent, 1)
	assert.Equal(t, "9123456789", f.disp.sent[0].Identifier)

	f.waitAsync(t)
	require.Len(t, f.msg.issued, 1)
	assert.Equal(t, tokenA, f.msg.issued[0].Token)

	// The replaced token stays dead.
	_, err = f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenB, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestResendPendingChallengeThrottled(t *testing.T) {
	f := newFixture(t)
	prior := pendingChallenge(tokenB)
	prior.CreatedAt = testNow.Add(-40 * time.Second)
	prior.ExpiresAt = testNow.Add(80 * time.Second)
	f.seedChallenge(prior)

	out, err := f.uc.Resend(context.Background(), ResendInput{Token: tokenB})
	require.NoError(t, err)
	assert.Equal(t, tokenB, out.Token)
	assert.EqualValues(t, 80, out.RemainingSeconds)

	assert.Empty(t, f.disp.sent)
	f.waitAsync(t)
	assert.Empty(t, f.msg.issued)
}

func TestResendConsumedChallenge(t *testing.T) {
	f := newFixture(t)
	prior := pendingChallenge(tokenB)
	prior.Used = true
	f.seedChallenge(prior)

	_, err := f.uc.Resend(context.Background(), ResendInput{Token: tokenB})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestResendUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Resend(context.Background(), ResendInput{Token: tokenA})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestResendLosesToConcurrentIssue(t *testing.T) {
	f := newFixture(t)
	prior := pendingChallenge(tokenB)
	prior.CreatedAt = testNow.Add(-5 * time.Minute)
	prior.ExpiresAt = testNow.Add(-3 * time.Minute)
	f.seedChallenge(prior)

	// A concurrent issue already opened a fresh challenge for the same
	// identifier, so the resend is answered like a throttle.
	racing := entity.Challenge{
		ID:         200,
		UserID:     7,
		Identifier: prior.Identifier,
		Channel:    entity.ChannelSMS,
		Token:      tokenA,
		Code:       "123456",
		CreatedAt:  testNow.Add(-5 * time.Second),
		ExpiresAt:  testNow.Add(115 * time.Second),
	}
	f.seedChallenge(racing)

	out, err := f.uc.Resend(context.Background(), ResendInput{Token: tokenB})
	require.NoError(t, err)
	assert.Equal(t, tokenA, out.Token)
	assert.EqualValues(t, 115, out.RemainingSeconds)

	assert.Empty(t, f.disp.sent)
}
