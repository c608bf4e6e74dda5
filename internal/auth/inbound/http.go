package inbound

import (
	"context"

	"github.com/refundly/phonegate/internal/auth/usecase"
	"github.com/refundly/phonegate/internal/pkg/router"
)

type uc interface {
	SendCode(ctx context.Context, in usecase.SendCodeInput) (*usecase.SendCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	RefreshSession(ctx context.Context, in usecase.RefreshSessionInput) (*usecase.RefreshSessionOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/otp/send", end.SendCode)
	r.POST("/api/v1/auth/otp/verify", end.VerifyCode)
	r.POST("/api/v1/auth/refresh", end.RefreshSession)
	r.POST("/api/v1/auth/logout", end.Logout) // need authenticated
}
