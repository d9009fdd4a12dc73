package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/auth/outbound/dispatch"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/idempotency"
)

type IssueInput struct {
	ID string `validate:"required,max=254"`
}

type IssueOutput struct {
	Token            string
	RemainingSeconds int64
}

// Issue starts a passwordless login: it classifies the identifier,
// provisions the account on first contact and opens an OTP challenge. When
// an active challenge already exists the caller gets its token plus the
// seconds left, without a new code being generated or sent.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ident, err := entity.ParseIdentifier(in.ID)
	if err != nil {
		slog.WarnContext(ctx, "identifier is not classifiable", "error", err)
		return nil, goerror.NewInvalidInput(nil, "id", "must be an email address or iranian mobile number")
	}

	user, err := s.provisionUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ch, created, err := s.repoDB.CreateChallengeIfNoneActive(ctx, entity.Challenge{
		ID:         s.uid.Generate(),
		UserID:     user.ID,
		Identifier: ident.Value,
		Channel:    ident.Channel(),
		Token:      s.token.Generate(),
		Code:       code,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.challengeWindow()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create challenge", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !created {
		return &IssueOutput{Token: ch.Token, RemainingSeconds: ch.RemainingSeconds(now)}, nil
	}

	if err := s.dispatchChallenge(ctx, ch); err != nil {
		return nil, err
	}

	s.publishOtpIssued(ctx, user.ID, ch)

	return &IssueOutput{Token: ch.Token}, nil
}

// provisionUser finds or creates the account for the identifier. A unique
// violation means a concurrent first contact won the insert, so re-fetch.
func (s *Usecase) provisionUser(ctx context.Context, ident entity.Identifier) (*entity.User, error) {
	user, err := s.repoDB.GetUserByIdentifier(ctx, ident)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by identifier", "error", err)
		return nil, goerror.NewServer(err)
	}

	placeholder, err := s.bcrypt.Hash(s.oid.Generate())
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash placeholder credential", "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.CreateUser(ctx, entity.NewUser{
		ID:         s.uid.Generate(),
		Identifier: ident,
		Credential: string(placeholder),
		Status:     entity.UserStatusActive,
	})
	if err != nil && !errors.Is(err, goerror.ErrConflict) {
		slog.ErrorContext(ctx, "failed to repo create user", "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err = s.repoDB.GetUserByIdentifier(ctx, ident)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo re-fetch user by identifier", "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

// dispatchChallenge sends the code under an idempotency guard keyed by the
// challenge token. Terminal delivery failure voids the fresh challenge so
// the identifier is free to request a new one right away.
func (s *Usecase) dispatchChallenge(ctx context.Context, ch *entity.Challenge) error {
	err := s.idemp.Exec(ctx, "otp_dispatch:"+ch.Token, func(ctx context.Context) error {
		return s.dispatcher.Send(ctx, dispatch.Delivery{
			Channel:    ch.Channel,
			Identifier: ch.Identifier,
			Code:       ch.Code,
		})
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to dispatch otp code", "channel", ch.Channel.String(), "error", err)

		if vErr := s.repoDB.VoidChallenge(ctx, ch.ID); vErr != nil {
			slog.ErrorContext(ctx, "failed to void undeliverable challenge", "challenge_id", ch.ID, "error", vErr)
		}

		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) publishOtpIssued(ctx context.Context, userID int64, ch *entity.Challenge) {
	msg := OtpIssuedEvent{
		UserID:     userID,
		Identifier: ch.Identifier,
		Channel:    ch.Channel.String(),
		Token:      ch.Token,
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOtpIssued(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued event", "error", err)
		}
		return nil
	})
}
