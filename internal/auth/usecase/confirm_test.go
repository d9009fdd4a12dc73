package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingChallenge(token string) entity.Challenge {
	return entity.Challenge{
		ID:         100,
		UserID:     7,
		Identifier: "9123456789",
		Channel:    entity.ChannelSMS,
		Token:      token,
		Code:       "123456",
		CreatedAt:  testNow.Add(-10 * time.Second),
		ExpiresAt:  testNow.Add(110 * time.Second),
	}
}

func TestConfirmSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedChallenge(pendingChallenge(tokenA))

	out, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-7-9123456789", out.AccessToken)
	assert.Equal(t, "refresh-one", out.RefreshToken)

	// The identifier is stamped verified and the refresh token is stored
	// hashed, never in plaintext.
	require.Len(t, f.db.verified, 1)
	assert.EqualValues(t, 7, f.db.verified[0])
	require.Len(t, f.db.createdRefresh, 1)
	assert.NotEqual(t, "refresh-one", f.db.createdRefresh[0].Token)
	assert.Equal(t, testNow.Add(720*time.Hour), f.db.createdRefresh[0].ExpiresAt)

	f.waitAsync(t)
	require.Len(t, f.msg.confirmed, 1)
	assert.EqualValues(t, 7, f.msg.confirmed[0].UserID)
	assert.Equal(t, tokenA, f.msg.confirmed[0].Token)
}

func TestConfirmStampsFirstVerification(t *testing.T) {
	f := newFixture(t)
	f.seedUser("9123456789", entity.User{ID: 7, Mobile: "9123456789", Status: entity.UserStatusActive})
	f.seedChallenge(pendingChallenge(tokenA))

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	require.NoError(t, err)

	user, err := f.db.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, testNow, user.MobileVerifiedAt)
}

func TestConfirmKeepsEarlierVerifiedAt(t *testing.T) {
	f := newFixture(t)
	firstVerified := testNow.Add(-48 * time.Hour)
	f.seedUser("9123456789", entity.User{
		ID:               7,
		Mobile:           "9123456789",
		Status:           entity.UserStatusActive,
		MobileVerifiedAt: firstVerified,
	})
	f.seedChallenge(pendingChallenge(tokenA))

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	require.NoError(t, err)

	// Confirming again later never moves the original verification time.
	user, err := f.db.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, firstVerified, user.MobileVerifiedAt)
}

func TestConfirmWrongCodeLeavesChallengePending(t *testing.T) {
	f := newFixture(t)
	f.seedChallenge(pendingChallenge(tokenA))

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "999999"})
	assertFieldError(t, err, "otp")

	// A wrong guess does not burn the challenge. The right code still works.
	out, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
}

func TestConfirmUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestConfirmConsumedChallenge(t *testing.T) {
	f := newFixture(t)
	ch := pendingChallenge(tokenA)
	ch.Used = true
	f.seedChallenge(ch)

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
	assert.Empty(t, f.db.verified)
}

func TestConfirmExpiredChallenge(t *testing.T) {
	f := newFixture(t)
	ch := pendingChallenge(tokenA)
	ch.CreatedAt = testNow.Add(-3 * time.Minute)
	ch.ExpiresAt = testNow.Add(-time.Minute)
	f.seedChallenge(ch)

	// The right code on an expired challenge gets the same answer as an
	// unknown token.
	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestConfirmExactlyAtExpiry(t *testing.T) {
	f := newFixture(t)
	ch := pendingChallenge(tokenA)
	ch.ExpiresAt = testNow
	f.seedChallenge(ch)

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestConfirmLostConsumeRace(t *testing.T) {
	f := newFixture(t)
	f.seedChallenge(pendingChallenge(tokenA))

	// Another request flips the used flag between our read and our update.
	f.db.consumeDenied = true

	_, err := f.uc.Confirm(context.Background(), ConfirmInput{Token: tokenA, Otp: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
	assert.Empty(t, f.db.verified)
}

func TestConfirmInputValidation(t *testing.T) {
	f := newFixture(t)

	cases := []ConfirmInput{
		{Token: "", Otp: "123456"},
		{Token: "short", Otp: "123456"},
		{Token: strings.Repeat("z", 64), Otp: "123456"},
		{Token: tokenA, Otp: ""},
		{Token: tokenA, Otp: "12345"},
		{Token: tokenA, Otp: "abcdef"},
	}
	for _, in := range cases {
		_, err := f.uc.Confirm(context.Background(), in)
		assertBusinessCode(t, err, goerror.CodeInvalidInput)
	}
}
