package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/refundly/phonegate/internal/audit/usecase"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/messaging"
	"github.com/refundly/phonegate/internal/pkg/uid"
	"github.com/refundly/phonegate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
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

func (h *MQHandler) PhoneVerifiedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "PhoneVerifiedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: phone verified audit", "msg_body", string(body))

	var payload event.PhoneVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of phone verified audit", "msg_body", string(body), "error", err)
		return nil
	}

	var occurredAt time.Time
	if payload.VerifiedAt > 0 {
		occurredAt = time.Unix(payload.VerifiedAt, 0).UTC()
	}

	if err := h.uc.RecordSignIn(ctx, usecase.RecordSignInInput{
		AccountID:  payload.AccountID,
		Phone:      payload.Phone,
		NewAccount: payload.NewAccount,
		ClientIP:   payload.ClientIP,
		OccurredAt: occurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume phone verified audit", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
