package usecase

import (
	"context"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
)

type ListEventsInput struct {
	EventType string `validate:"omitempty,oneof=otp_issued otp_confirmed"`
	Limit     int32  `validate:"omitempty,gte=1,lte=100"`
	Offset    int32  `validate:"omitempty,gte=0"`
}

// ListEvents returns the newest audit rows, optionally scoped to one event
// type.
func (s *Usecase) ListEvents(ctx context.Context, in ListEventsInput) (_ []entity.AuditEvent, err error) {
	ctx, span := s.startSpan(ctx, "ListEvents")
	defer span.End()

	if _, err := s.requireAuth(ctx); err != nil {
		return nil, err
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListAuditEvents(ctx, entity.EventTypeFromString(in.EventType), in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list audit events", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
