package usecase

import (
	"context"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/valueobject"
)

type ConsumeOtpEventInput struct {
	UserID     int64  `validate:"required,gt=0"`
	Identifier string `validate:"required,max=254"`
	Channel    string `validate:"required,oneof=sms email"`
	Token      string `validate:"required"`
}

// ConsumeOtpIssued appends an audit row for a dispatched challenge.
// Malformed payloads are logged and dropped, never redelivered.
func (s *Usecase) ConsumeOtpIssued(ctx context.Context, in ConsumeOtpEventInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpIssued")
	defer span.End()

	return s.append(ctx, entity.EventOtpIssued, in)
}

// ConsumeOtpConfirmed appends an audit row for a completed login.
func (s *Usecase) ConsumeOtpConfirmed(ctx context.Context, in ConsumeOtpEventInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpConfirmed")
	defer span.End()

	return s.append(ctx, entity.EventOtpConfirmed, in)
}

func (s *Usecase) append(ctx context.Context, et entity.EventType, in ConsumeOtpEventInput) error {
	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	err := s.repoDB.CreateAuditEvent(ctx, entity.AuditEvent{
		ID:         s.uid.Generate(),
		EventType:  et,
		UserID:     in.UserID,
		Identifier: in.Identifier,
		Channel:    in.Channel,
		Token:      in.Token,
		Metadata:   valueobject.JSONMap{"correlation_id": instrument.GetCorrelationID(ctx)},
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create audit event", "event_type", et.String(), "error", err)
		return err
	}

	return nil
}
