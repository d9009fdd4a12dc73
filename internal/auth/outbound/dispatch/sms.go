package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/config"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/sms"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

// SMS delivers codes through the bulk SMS gateway. The body is the fixed
// Persian template users already know from the shop.
type SMS struct {
	client sms.SMS
	cfg    config.Config
	ins    instrument.Instrumentation
}

func NewSMS(client sms.SMS, cfg config.Config, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, cfg: cfg, ins: ins}
}

func (s *SMS) Send(ctx context.Context, d Delivery) error {
	ctx, span := s.ins.Tracer("auth.outbound.dispatch").Start(ctx, "SMS.Send")
	defer span.End()

	msg := sms.Message{
		To:    "0" + d.Identifier,
		Body:  fmt.Sprintf("فروشگاه سپید\nکد ورود شما: %s", d.Code),
		Flash: s.cfg.GetBool("modules.auth.sms.flash"),
	}

	b := retry.WithMaxRetries(uint64(s.cfg.GetInt("modules.auth.dispatch_max_retries")),
		retry.NewFibonacci(300*time.Millisecond))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.client.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &entity.DispatchError{Channel: entity.ChannelSMS, Err: err}
	}

	return nil
}
