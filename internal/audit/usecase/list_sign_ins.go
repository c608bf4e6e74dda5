package usecase

import (
	"context"
	"log/slog"

	"github.com/refundly/phonegate/internal/audit/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/jwt"
)

type ListSignInsInput struct {
	Limit  int32 `validate:"gte=0,lte=100"`
	Offset int32 `validate:"gte=0"`
}

type ListSignInsOutput struct {
	Events []entity.SignInEvent
	Total  int64
}

// ListSignIns returns the sign-in history of the authenticated account,
// newest first.
func (s *Usecase) ListSignIns(ctx context.Context, in ListSignInsInput) (*ListSignInsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListSignIns")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	limit := in.Limit
	if limit == 0 {
		limit = s.cfg.GetInt32("modules.audit.default_page_size")
	}

	events, total, err := s.repoDB.ListSignInEvents(ctx, entity.SignInEventFilter{
		AccountID: clm.UserID,
		Limit:     limit,
		Offset:    in.Offset,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list sign-in events", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListSignInsOutput{Events: events, Total: total}, nil
}
