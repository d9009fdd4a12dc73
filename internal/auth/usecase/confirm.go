package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
)

type ConfirmInput struct {
	Token string `validate:"required,len=64,hexadecimal"`
	Otp   string `validate:"required,otpcode"`
}

type ConfirmOutput struct {
	AccessToken  string
	RefreshToken string
}

// Confirm finishes the login. The challenge is consumed at most once: a
// correct code flips the used flag through a conditional update, stamps the
// identifier verified on first success and establishes the session. A wrong
// code leaves the challenge pending for another try inside the window.
func (s *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "Confirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.repoDB.GetChallengeByToken(ctx, in.Token)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp challenge not found")
		return nil, errInvalidOrExpired()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge by token", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if ch.State(now) != entity.ChallengePending {
		slog.WarnContext(ctx, "otp challenge is not pending", "challenge_id", ch.ID)
		return nil, errInvalidOrExpired()
	}

	if !ch.CodeMatches(in.Otp) {
		slog.WarnContext(ctx, "otp code mismatch", "challenge_id", ch.ID)
		return nil, goerror.NewInvalidInput(nil, "otp", "the code is incorrect")
	}

	won, err := s.repoDB.ConsumeChallenge(ctx, ch.Token, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume challenge", "challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !won {
		slog.WarnContext(ctx, "otp challenge consumed by concurrent request", "challenge_id", ch.ID)
		return nil, errInvalidOrExpired()
	}

	kind := entity.IdentifierEmail
	if ch.Channel == entity.ChannelSMS {
		kind = entity.IdentifierMobile
	}
	if err := s.repoDB.MarkIdentifierVerified(ctx, ch.UserID, kind, now); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark identifier verified", "user_id", ch.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, refresh, err := s.establishSession(ctx, ch.UserID, ch.Identifier)
	if err != nil {
		return nil, err
	}

	s.publishOtpConfirmed(ctx, ch)

	return &ConfirmOutput{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Usecase) publishOtpConfirmed(ctx context.Context, ch *entity.Challenge) {
	msg := OtpConfirmedEvent{
		UserID:     ch.UserID,
		Identifier: ch.Identifier,
		Channel:    ch.Channel.String(),
		Token:      ch.Token,
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOtpConfirmed(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp confirmed event", "error", err)
		}
		return nil
	})
}
