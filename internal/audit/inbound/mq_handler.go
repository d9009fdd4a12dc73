package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sepidshop/otpgate/internal/audit/usecase"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/messaging"
	"github.com/sepidshop/otpgate/internal/pkg/uid"
	"github.com/sepidshop/otpgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpIssuedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "OtpIssuedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp issued audit", "msg_body", string(body))

	var payload event.OtpIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued audit", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOtpIssued(ctx, usecase.ConsumeOtpEventInput{
		UserID:     payload.UserID,
		Identifier: payload.Identifier,
		Channel:    payload.Channel,
		Token:      payload.Token,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) OtpConfirmedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "OtpConfirmedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp confirmed audit", "msg_body", string(body))

	var payload event.OtpConfirmedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp confirmed audit", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOtpConfirmed(ctx, usecase.ConsumeOtpEventInput{
		UserID:     payload.UserID,
		Identifier: payload.Identifier,
		Channel:    payload.Channel,
		Token:      payload.Token,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp confirmed", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
