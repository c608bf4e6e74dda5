package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/refundly/phonegate/internal/pkg/config"
	"github.com/refundly/phonegate/internal/pkg/goroutine"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/messaging"
	"github.com/refundly/phonegate/internal/pkg/uid"
	"github.com/refundly/phonegate/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.audit.consumer_names")

	var consumers = []struct {
		name              string
		topic             string // destination where publisher sent message
		natsConsumerName  string // for nats
		kafkaConsumerName string // for kafka
		handler           messaging.Handler
	}{
		{
			name:              event.PhoneVerifiedConsumerAudit,
			topic:             event.PhoneVerifiedDestination,
			natsConsumerName:  event.PhoneVerifiedConsumerAudit,
			kafkaConsumerName: event.PhoneVerifiedConsumerAudit,
			handler:           mqHandler.PhoneVerifiedAudit,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
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
