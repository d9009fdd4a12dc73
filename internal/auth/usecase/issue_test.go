package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueFreshMobileChallenge(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Issue(context.Background(), IssueInput{ID: "+989123456789"})
	require.NoError(t, err)
	require.Equal(t, tokenA, out.Token)
	assert.Zero(t, out.RemainingSeconds)

	// First contact provisions the account with a placeholder credential.
	require.Len(t, f.db.createdUsers, 1)
	assert.Equal(t, "9123456789", f.db.createdUsers[0].Identifier.Value)
	assert.Equal(t, entity.UserStatusActive, f.db.createdUsers[0].Status)
	assert.NotEmpty(t, f.db.createdUsers[0].Credential)

	require.Len(t, f.disp.sent, 1)
	assert.Equal(t, entity.ChannelSMS, f.disp.sent[0].Channel)
	assert.Equal(t, "9123456789", f.disp.sent[0].Identifier)
	assert.Equal(t, "123456", f.disp.sent[0].Code)

	f.waitAsync(t)
	require.Len(t, f.msg.issued, 1)
	assert.Equal(t, "sms", f.msg.issued[0].Channel)
	assert.Equal(t, tokenA, f.msg.issued[0].Token)
}

func TestIssueFreshEmailChallenge(t *testing.T) {
	f := newFixture(t)
	f.seedUser("someone@example.com", entity.User{
		ID:     42,
		Email:  "someone@example.com",
		Status: entity.UserStatusActive,
	})

	out, err := f.uc.Issue(context.Background(), IssueInput{ID: "Someone@Example.COM"})
	require.NoError(t, err)
	require.Equal(t, tokenA, out.Token)

	// The account already exists, nothing is provisioned.
	assert.Empty(t, f.db.createdUsers)

	require.Len(t, f.disp.sent, 1)
	assert.Equal(t, entity.ChannelEmail, f.disp.sent[0].Channel)
	assert.Equal(t, "someone@example.com", f.disp.sent[0].Identifier)

	f.waitAsync(t)
	require.Len(t, f.msg.issued, 1)
	assert.EqualValues(t, 42, f.msg.issued[0].UserID)
}

func TestIssueThrottledWhileChallengeActive(t *testing.T) {
	f := newFixture(t)
	f.seedUser("9123456789", entity.User{ID: 7, Mobile: "9123456789", Status: entity.UserStatusActive})
	f.seedChallenge(entity.Challenge{
		ID:         100,
		UserID:     7,
		Identifier: "9123456789",
		Channel:    entity.ChannelSMS,
		Token:      tokenB,
		Code:       "654321",
		CreatedAt:  testNow.Add(-30 * time.Second),
		ExpiresAt:  testNow.Add(90 * time.Second),
	})

	out, err := f.uc.Issue(context.Background(), IssueInput{ID: "09123456789"})
	require.NoError(t, err)
	assert.Equal(t, tokenB, out.Token)
	assert.EqualValues(t, 90, out.RemainingSeconds)

	// No new code is generated or sent while the window is open.
	assert.Empty(t, f.disp.sent)
	f.waitAsync(t)
	assert.Empty(t, f.msg.issued)
}

func TestIssueUnclassifiableIdentifier(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"not-an-identifier", "0812345678", "+4915123456789"} {
		_, err := f.uc.Issue(context.Background(), IssueInput{ID: id})
		assertFieldError(t, err, "id")
	}

	assert.Empty(t, f.db.createdUsers)
	assert.Empty(t, f.disp.sent)
}

func TestIssueEmptyIdentifier(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Issue(context.Background(), IssueInput{ID: ""})
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
}

func TestIssueBannedUser(t *testing.T) {
	f := newFixture(t)
	f.seedUser("9123456789", entity.User{ID: 7, Mobile: "9123456789", Status: entity.UserStatusBanned})

	_, err := f.uc.Issue(context.Background(), IssueInput{ID: "09123456789"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
	assert.Empty(t, f.disp.sent)
}

func TestIssueProvisionRace(t *testing.T) {
	f := newFixture(t)

	// A concurrent first contact wins the insert between our miss and our
	// create. The conflict is tolerated and the winner's row is re-fetched.
	f.db.errOn["CreateUser"] = goerror.ErrConflict
	f.seedUser("9123456789", entity.User{ID: 99, Mobile: "9123456789", Status: entity.UserStatusActive})

	out, err := f.uc.Issue(context.Background(), IssueInput{ID: "989123456789"})
	require.NoError(t, err)
	assert.Equal(t, tokenA, out.Token)

	f.waitAsync(t)
	require.Len(t, f.msg.issued, 1)
	assert.EqualValues(t, 99, f.msg.issued[0].UserID)
}

func TestIssueDispatchFailureVoidsChallenge(t *testing.T) {
	f := newFixture(t)
	f.disp.err = errors.New("gateway down")

	_, err := f.uc.Issue(context.Background(), IssueInput{ID: "09123456789"})
	assertBusinessCode(t, err, goerror.CodeInternal)

	// The undeliverable challenge is voided so the identifier can retry
	// immediately instead of waiting out the window.
	require.Len(t, f.db.voided, 1)

	f.waitAsync(t)
	assert.Empty(t, f.msg.issued)
}

func TestIssueDispatchAlreadyCompleted(t *testing.T) {
	f := newFixture(t)
	f.idemp.execErr = idempotency.ErrAlreadyCompleted

	out, err := f.uc.Issue(context.Background(), IssueInput{ID: "09123456789"})
	require.NoError(t, err)
	assert.Equal(t, tokenA, out.Token)
	assert.Empty(t, f.db.voided)
}

func TestIssueRepoFailure(t *testing.T) {
	f := newFixture(t)
	f.db.errOn["CreateChallengeIfNoneActive"] = errors.New("db down")

	_, err := f.uc.Issue(context.Background(), IssueInput{ID: "09123456789"})
	assertBusinessCode(t, err, goerror.CodeInternal)
}
