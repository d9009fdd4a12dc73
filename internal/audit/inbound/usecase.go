package inbound

import (
	"context"

	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/audit/usecase"
)

type ucConsumer interface {
	ConsumeOtpIssued(ctx context.Context, in usecase.ConsumeOtpEventInput) error
	ConsumeOtpConfirmed(ctx context.Context, in usecase.ConsumeOtpEventInput) error
}

type uc interface {
	ucConsumer

	ListEvents(ctx context.Context, in usecase.ListEventsInput) ([]entity.AuditEvent, error)
}
