package sms

import (
	"context"

	"github.com/refundly/phonegate/internal/pkg/instrument"
	pkgsms "github.com/refundly/phonegate/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
)

// Sender wraps an SMS provider with tracing. It satisfies the same interface
// as the wrapped client.
type Sender struct {
	client pkgsms.SMS
	ins    instrument.Instrumentation
}

func New(client pkgsms.SMS, ins instrument.Instrumentation) *Sender {
	return &Sender{client: client, ins: ins}
}

func (m *Sender) Send(ctx context.Context, msg pkgsms.Message) error {
	ctx, span := m.ins.Tracer("auth.outbound.sms").Start(ctx, "Send")
	defer span.End()

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Sender) Close() error {
	return m.client.Close()
}
