package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/auth/outbound/dispatch"
	"github.com/sepidshop/otpgate/internal/pkg/clock"
	"github.com/sepidshop/otpgate/internal/pkg/config"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/goroutine"
	"github.com/sepidshop/otpgate/internal/pkg/hash"
	"github.com/sepidshop/otpgate/internal/pkg/idempotency"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/jwt"
	"github.com/sepidshop/otpgate/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var (
	testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tokenA = strings.Repeat("a", 64)
	tokenB = strings.Repeat("b", 64)
)

const testConfigYAML = `
modules:
  auth:
    challenge_window_seconds: 120
    refresh_token_ttl_hours: 720
    dispatch_max_retries: 0
`

type fakeDB struct {
	mu sync.Mutex

	users      map[string]*entity.User
	challenges map[string]*entity.Challenge
	refreshes  map[string]*entity.RefreshTokenInfo

	createdUsers     []entity.NewUser
	createdRefresh   []entity.RefreshToken
	verified         []int64
	voided           []int64
	revoked          []string
	revokedAllUserID []int64
	rotated          []entity.RotateRefreshToken

	// consumeDenied makes ConsumeChallenge report a lost race.
	consumeDenied bool

	errOn map[string]error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:      map[string]*entity.User{},
		challenges: map[string]*entity.Challenge{},
		refreshes:  map[string]*entity.RefreshTokenInfo{},
		errOn:      map[string]error{},
	}
}

func (f *fakeDB) fail(method string) error {
	return f.errOn[method]
}

func (f *fakeDB) GetUserByIdentifier(_ context.Context, ident entity.Identifier) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetUserByIdentifier"); err != nil {
		return nil, err
	}

	user, ok := f.users[ident.Value]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return user, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, goerror.ErrNotFound
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("CreateUser"); err != nil {
		return err
	}

	if _, ok := f.users[user.Identifier.Value]; ok {
		return goerror.ErrConflict
	}

	created := &entity.User{ID: user.ID, Status: user.Status}
	if user.Identifier.IsMobile() {
		created.Mobile = user.Identifier.Value
	} else {
		created.Email = user.Identifier.Value
	}

	f.users[user.Identifier.Value] = created
	f.createdUsers = append(f.createdUsers, user)

	return nil
}

func (f *fakeDB) MarkIdentifierVerified(_ context.Context, userID int64, kind entity.IdentifierKind, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("MarkIdentifierVerified"); err != nil {
		return err
	}

	f.verified = append(f.verified, userID)

	// Mirrors the conditional UPDATE: the column is written only while
	// still null, so repeat confirmations keep the first timestamp.
	for _, user := range f.users {
		if user.ID != userID {
			continue
		}
		if kind == entity.IdentifierMobile && user.MobileVerifiedAt.IsZero() {
			user.MobileVerifiedAt = at
		}
		if kind == entity.IdentifierEmail && user.EmailVerifiedAt.IsZero() {
			user.EmailVerifiedAt = at
		}
	}

	return nil
}

func (f *fakeDB) GetChallengeByToken(_ context.Context, token string) (*entity.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetChallengeByToken"); err != nil {
		return nil, err
	}

	ch, ok := f.challenges[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return ch, nil
}

func (f *fakeDB) CreateChallengeIfNoneActive(_ context.Context, ch entity.Challenge) (*entity.Challenge, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("CreateChallengeIfNoneActive"); err != nil {
		return nil, false, err
	}

	for _, existing := range f.challenges {
		if existing.Identifier == ch.Identifier && !existing.Used && ch.CreatedAt.Before(existing.ExpiresAt) {
			return existing, false, nil
		}
	}

	stored := ch
	f.challenges[ch.Token] = &stored

	return &stored, true, nil
}

func (f *fakeDB) ConsumeChallenge(_ context.Context, token string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("ConsumeChallenge"); err != nil {
		return false, err
	}
	if f.consumeDenied {
		return false, nil
	}

	ch, ok := f.challenges[token]
	if !ok || ch.Used {
		return false, nil
	}
	ch.Used = true

	return true, nil
}

func (f *fakeDB) VoidChallenge(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.challenges {
		if ch.ID == id {
			ch.Used = true
		}
	}
	f.voided = append(f.voided, id)

	return nil
}

func (f *fakeDB) CreateRefreshToken(_ context.Context, rt entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("CreateRefreshToken"); err != nil {
		return err
	}

	f.createdRefresh = append(f.createdRefresh, rt)

	return nil
}

func (f *fakeDB) GetRefreshTokenInfo(_ context.Context, tokenHash string) (*entity.RefreshTokenInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.refreshes[tokenHash]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return info, nil
}

func (f *fakeDB) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.revoked = append(f.revoked, tokenHash)

	return nil
}

func (f *fakeDB) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.revokedAllUserID = append(f.revokedAllUserID, userID)

	return nil
}

func (f *fakeDB) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("RotateRefreshToken"); err != nil {
		return err
	}

	f.rotated = append(f.rotated, ro)

	return nil
}

type fakeMessaging struct {
	mu        sync.Mutex
	issued    []OtpIssuedEvent
	confirmed []OtpConfirmedEvent
}

func (f *fakeMessaging) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)

	return nil
}

func (f *fakeMessaging) PublishOtpConfirmed(_ context.Context, msg OtpConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, msg)

	return nil
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []dispatch.Delivery
	err  error
}

func (f *fakeDispatcher) Send(_ context.Context, d dispatch.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, d)

	return nil
}

// fakeIdemp runs the guarded function inline.
type fakeIdemp struct {
	execErr error
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.execErr != nil {
		return f.execErr
	}

	return fn(ctx)
}

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, identifier string) (string, error) {
	return fmt.Sprintf("jwt-%d-%s", uid, identifier), nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type counterID struct {
	mu sync.Mutex
	n  int64
}

func (c *counterID) Generate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++

	return c.n
}

// queueStringID hands out preset values, then falls back to the last one.
type queueStringID struct {
	mu     sync.Mutex
	values []string
	i      int
}

func (q *queueStringID) Generate() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.i < len(q.values)-1 {
		q.i++
		return q.values[q.i-1]
	}

	return q.values[len(q.values)-1]
}

type fixedCode struct {
	code string
}

func (f *fixedCode) Generate() (string, error) { return f.code, nil }

type fixture struct {
	uc      *Usecase
	db      *fakeDB
	msg     *fakeMessaging
	disp    *fakeDispatcher
	idemp   *fakeIdemp
	routine *goroutine.Manager
	hmac    hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		db:      newFakeDB(),
		msg:     &fakeMessaging{},
		disp:    &fakeDispatcher{},
		idemp:   &fakeIdemp{},
		routine: goroutine.NewManager(10),
		hmac:    hash.NewHMACSHA256("test-secret"),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.msg,
		Dispatcher:    f.disp,
		Idempotency:   f.idemp,
		Validator:     v10,
		Config:        cfg,
		HMAC:          f.hmac,
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &counterID{},
		OID:           &queueStringID{values: []string{"refresh-one", "refresh-two"}},
		Token:         &queueStringID{values: []string{tokenA, tokenB}},
		Code:          &fixedCode{code: "123456"},
		Clock:         &clock.Fixed{At: testNow},
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.routine,
	})

	return f
}

// waitAsync waits for fire-and-forget publishes scheduled on the manager.
func (f *fixture) waitAsync(t *testing.T) {
	t.Helper()
	require.NoError(t, f.routine.Wait())
}

func (f *fixture) seedChallenge(ch entity.Challenge) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	stored := ch
	f.db.challenges[ch.Token] = &stored
}

func (f *fixture) seedUser(identifier string, user entity.User) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	stored := user
	f.db.users[identifier] = &stored
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, code, gerr.Code())
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Contains(t, gerr.Fields(), field)
}
