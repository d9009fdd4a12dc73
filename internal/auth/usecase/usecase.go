package usecase

import (
	"context"
	"log/slog"
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
	"github.com/sepidshop/otpgate/internal/pkg/otp"
	"github.com/sepidshop/otpgate/internal/pkg/uid"
	"github.com/sepidshop/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OtpIssuedEvent struct {
	UserID     int64
	Identifier string
	Channel    string
	Token      string
}

type OtpConfirmedEvent struct {
	UserID     int64
	Identifier string
	Channel    string
	Token      string
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
	PublishOtpConfirmed(ctx context.Context, msg OtpConfirmedEvent) error
}

type repoDB interface {
	GetUserByIdentifier(ctx context.Context, ident entity.Identifier) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.NewUser) error
	MarkIdentifierVerified(ctx context.Context, userID int64, kind entity.IdentifierKind, at time.Time) error

	GetChallengeByToken(ctx context.Context, token string) (*entity.Challenge, error)
	CreateChallengeIfNoneActive(ctx context.Context, ch entity.Challenge) (*entity.Challenge, bool, error)
	ConsumeChallenge(ctx context.Context, token string, at time.Time) (bool, error)
	VoidChallenge(ctx context.Context, id int64) error

	CreateRefreshToken(ctx context.Context, rt entity.RefreshToken) error
	GetRefreshTokenInfo(ctx context.Context, tokenHash string) (*entity.RefreshTokenInfo, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	dispatcher    dispatch.Dispatcher
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	token         uid.StringID
	code          otp.CodeGenerator
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Dispatcher    dispatch.Dispatcher
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Token         uid.StringID
	Code          otp.CodeGenerator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		dispatcher:    dep.Dispatcher,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		oid:           dep.OID,
		token:         dep.Token,
		code:          dep.Code,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) challengeWindow() time.Duration {
	return s.cfg.GetSecond("modules.auth.challenge_window_seconds")
}

// errInvalidOrExpired is the single answer for absent, used, expired and
// lost-race challenges so a caller cannot probe which one happened.
func errInvalidOrExpired() error {
	return goerror.NewBusiness("invalid or expired otp challenge", goerror.CodeUnauthorized)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	default:
		return nil
	}
}

// establishSession issues the JWT access token and stores a fresh refresh
// token, returning the plaintext refresh value exactly once.
func (s *Usecase) establishSession(ctx context.Context, userID int64, identifier string) (access, refresh string, err error) {
	access, err = s.jwt.Generate(userID, identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refresh = s.oid.Generate()
	refreshHash, err := s.hmac.Hash(refresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return "", "", goerror.NewServer(err)
	}

	err = s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refreshHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetHour("modules.auth.refresh_token_ttl_hours")),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return access, refresh, nil
}
