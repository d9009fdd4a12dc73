package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
)

type ResendInput struct {
	Token string `validate:"required,len=64,hexadecimal"`
}

type ResendOutput struct {
	Token            string
	RemainingSeconds int64
}

// Resend replaces an expired challenge with a brand-new one for the same
// identifier. A still-pending challenge is throttled, a consumed one is
// rejected, and the prior token stays dead either way.
func (s *Usecase) Resend(ctx context.Context, in ResendInput) (*ResendOutput, error) {
	ctx, span := s.startSpan(ctx, "Resend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	prior, err := s.repoDB.GetChallengeByToken(ctx, in.Token)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp challenge not found")
		return nil, errInvalidOrExpired()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge by token", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	switch prior.State(now) {
	case entity.ChallengeConsumed:
		slog.WarnContext(ctx, "otp challenge already consumed", "challenge_id", prior.ID)
		return nil, errInvalidOrExpired()

	case entity.ChallengePending:
		return &ResendOutput{Token: prior.Token, RemainingSeconds: prior.RemainingSeconds(now)}, nil
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ch, created, err := s.repoDB.CreateChallengeIfNoneActive(ctx, entity.Challenge{
		ID:         s.uid.Generate(),
		UserID:     prior.UserID,
		Identifier: prior.Identifier,
		Channel:    prior.Channel,
		Token:      s.token.Generate(),
		Code:       code,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.challengeWindow()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create challenge", "user_id", prior.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !created {
		// A concurrent issue opened a fresh challenge first.
		return &ResendOutput{Token: ch.Token, RemainingSeconds: ch.RemainingSeconds(now)}, nil
	}

	if err := s.dispatchChallenge(ctx, ch); err != nil {
		return nil, err
	}

	s.publishOtpIssued(ctx, prior.UserID, ch)

	return &ResendOutput{Token: ch.Token}, nil
}
