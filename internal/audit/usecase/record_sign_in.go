package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/refundly/phonegate/internal/audit/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
)

type RecordSignInInput struct {
	AccountID  int64 `validate:"required"`
	Phone      string
	NewAccount bool
	ClientIP   string
	OccurredAt time.Time
}

// RecordSignIn persists a sign-in history entry for a verified phone.
// Duplicate deliveries from the broker are dropped silently.
func (s *Usecase) RecordSignIn(ctx context.Context, in RecordSignInInput) error {
	ctx, span := s.startSpan(ctx, "RecordSignIn")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}

	err := s.repoDB.CreateSignInEvent(ctx, entity.SignInEvent{
		ID:         s.uid.Generate(),
		AccountID:  in.AccountID,
		Phone:      in.Phone,
		NewAccount: in.NewAccount,
		ClientIP:   in.ClientIP,
		OccurredAt: occurredAt,
		CreatedAt:  s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "duplicate sign-in event dropped", "account_id", in.AccountID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create sign-in event", "account_id", in.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
