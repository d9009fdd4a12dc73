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

func (f *fixture) seedRefresh(t *testing.T, plaintext string, info entity.RefreshTokenInfo) {
	t.Helper()

	hashed, err := f.hmac.Hash(plaintext)
	require.NoError(t, err)

	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	stored := info
	stored.RefreshToken = string(hashed)
	f.db.refreshes[string(hashed)] = &stored
}

func activeRefreshInfo() entity.RefreshTokenInfo {
	return entity.RefreshTokenInfo{
		RefreshID:        500,
		RefreshExpiresAt: testNow.Add(24 * time.Hour),
		UserID:           7,
		UserIdentifier:   "9123456789",
		UserStatus:       entity.UserStatusActive,
	}
}

func TestRefreshRotation(t *testing.T) {
	f := newFixture(t)
	f.seedRefresh(t, "old-refresh", activeRefreshInfo())

	out, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "old-refresh"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-7-9123456789", out.AccessToken)
	assert.Equal(t, "refresh-one", out.RefreshToken)

	require.Len(t, f.db.rotated, 1)
	assert.EqualValues(t, 500, f.db.rotated[0].OldID)
	assert.EqualValues(t, 7, f.db.rotated[0].UserID)
	assert.NotEqual(t, "refresh-one", f.db.rotated[0].NewToken)
	assert.Equal(t, testNow.Add(720*time.Hour), f.db.rotated[0].NewExpiresAt)
}

func TestRefreshReuseDetection(t *testing.T) {
	f := newFixture(t)

	replacedBy := int64(501)
	info := activeRefreshInfo()
	info.RefreshRevoked = true
	info.RefreshReplacedByTokenID = &replacedBy
	f.seedRefresh(t, "stolen-refresh", info)

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "stolen-refresh"})
	assertBusinessCode(t, err, goerror.CodeForbidden)

	// Presenting a rotated token means it leaked, so every session of the
	// user is revoked.
	require.Len(t, f.db.revokedAllUserID, 1)
	assert.EqualValues(t, 7, f.db.revokedAllUserID[0])
}

func TestRefreshRevokedToken(t *testing.T) {
	f := newFixture(t)

	info := activeRefreshInfo()
	info.RefreshRevoked = true
	f.seedRefresh(t, "revoked-refresh", info)

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "revoked-refresh"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
	assert.Empty(t, f.db.revokedAllUserID)
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newFixture(t)

	info := activeRefreshInfo()
	info.RefreshExpiresAt = testNow.Add(-time.Hour)
	f.seedRefresh(t, "expired-refresh", info)

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "expired-refresh"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "never-issued"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshBannedUser(t *testing.T) {
	f := newFixture(t)

	info := activeRefreshInfo()
	info.UserStatus = entity.UserStatusBanned
	f.seedRefresh(t, "old-refresh", info)

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "old-refresh"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
	assert.Empty(t, f.db.rotated)
}

func TestRefreshLosesRotationRace(t *testing.T) {
	f := newFixture(t)
	f.seedRefresh(t, "old-refresh", activeRefreshInfo())
	f.db.errOn["RotateRefreshToken"] = goerror.ErrNotFound

	_, err := f.uc.Refresh(context.Background(), RefreshInput{RefreshToken: "old-refresh"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}
