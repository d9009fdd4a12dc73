package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sepidshop/otpgate/internal/pkg/config"
	"github.com/sepidshop/otpgate/internal/pkg/goroutine"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/messaging"
	"github.com/sepidshop/otpgate/internal/pkg/uid"
	"github.com/sepidshop/otpgate/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.audit.consumer_names")

	var consumers = []struct {
		name              string
		topic             string // destination where publisher sent message
		nsqConsumerName   string
		natsConsumerName  string
		kafkaConsumerName string
		handler           messaging.Handler
	}{
		{
			name:              event.OtpIssuedConsumerAudit,
			topic:             event.OtpIssuedDestination,
			nsqConsumerName:   event.OtpIssuedConsumerAudit,
			natsConsumerName:  event.OtpIssuedConsumerAudit,
			kafkaConsumerName: event.OtpIssuedConsumerAudit,
			handler:           mqHandler.OtpIssuedAudit,
		},
		{
			name:              event.OtpConfirmedConsumerAudit,
			topic:             event.OtpConfirmedDestination,
			nsqConsumerName:   event.OtpConfirmedConsumerAudit,
			natsConsumerName:  event.OtpConfirmedConsumerAudit,
			kafkaConsumerName: event.OtpConfirmedConsumerAudit,
			handler:           mqHandler.OtpConfirmedAudit,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
