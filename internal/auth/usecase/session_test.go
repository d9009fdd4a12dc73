package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedContext(userID int64, identifier string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, Identifier: identifier})
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Logout(authedContext(7, "9123456789"), LogoutInput{RefreshToken: "my-refresh"})
	require.NoError(t, err)

	// The repo sees the hash, not the plaintext.
	require.Len(t, f.db.revoked, 1)
	assert.NotEqual(t, "my-refresh", f.db.revoked[0])
}

func TestLogoutUnknownTokenIsSilent(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Logout(authedContext(7, "9123456789"), LogoutInput{RefreshToken: "never-issued"})
	require.NoError(t, err)
}

func TestLogoutRequiresAuth(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Logout(context.Background(), LogoutInput{RefreshToken: "my-refresh"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
	assert.Empty(t, f.db.revoked)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	f.seedUser("someone@example.com", entity.User{
		ID:              7,
		Email:           "someone@example.com",
		Status:          entity.UserStatusActive,
		EmailVerifiedAt: testNow.Add(-time.Hour),
		CreatedAt:       testNow.Add(-48 * time.Hour),
	})

	out, err := f.uc.Profile(authedContext(7, "someone@example.com"))
	require.NoError(t, err)
	assert.EqualValues(t, 7, out.ID)
	assert.Equal(t, "someone@example.com", out.Email)
	assert.Empty(t, out.Mobile)
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, testNow.Add(-time.Hour), out.EmailVerifiedAt)
	assert.True(t, out.MobileVerifiedAt.IsZero())
}

func TestProfileRequiresAuth(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Profile(context.Background())
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestProfileUserGone(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Profile(authedContext(404, "gone@example.com"))
	assertBusinessCode(t, err, goerror.CodeNotFound)
}
