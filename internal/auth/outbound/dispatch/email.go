package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/config"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/mail"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

// Email delivers codes over SMTP.
type Email struct {
	client mail.Mail
	cfg    config.Config
	ins    instrument.Instrumentation
}

func NewEmail(client mail.Mail, cfg config.Config, ins instrument.Instrumentation) *Email {
	return &Email{client: client, cfg: cfg, ins: ins}
}

func (e *Email) Send(ctx context.Context, d Delivery) error {
	ctx, span := e.ins.Tracer("auth.outbound.dispatch").Start(ctx, "Email.Send")
	defer span.End()

	msg := mail.Message{
		From:     e.cfg.GetString("modules.auth.email.from"),
		To:       []string{d.Identifier},
		Subject:  "کد ورود به فروشگاه سپید",
		TextBody: fmt.Sprintf("فروشگاه سپید\n\nکد ورود شما: %s", d.Code),
	}

	b := retry.WithMaxRetries(uint64(e.cfg.GetInt("modules.auth.dispatch_max_retries")),
		retry.NewFibonacci(300*time.Millisecond))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := e.client.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &entity.DispatchError{Channel: entity.ChannelEmail, Err: err}
	}

	return nil
}
