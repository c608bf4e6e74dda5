package inbound

import (
	"context"

	"github.com/refundly/phonegate/internal/audit/usecase"
)

type uc interface {
	RecordSignIn(ctx context.Context, in usecase.RecordSignInInput) error
	ListSignIns(ctx context.Context, in usecase.ListSignInsInput) (*usecase.ListSignInsOutput, error)
}
