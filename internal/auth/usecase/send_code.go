package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/cooldown"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/phone"
	"github.com/refundly/phonegate/internal/pkg/sms"
)

type SendCodeInput struct {
	Phone string `validate:"required,ilphone"`
}

type SendCodeOutput struct {
	Phone string // E.164, as stored
}

// SendCode issues a fresh verification code for the phone and dispatches it
// over SMS. Any previously active code for the phone is invalidated first, so
// at most one code per phone is live at a time.
func (s *Usecase) SendCode(ctx context.Context, in SendCodeInput) (*SendCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "SendCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phoneE164, err := phone.Normalize(in.Phone)
	if err != nil {
		slog.WarnContext(ctx, "phone failed normalization", "phone", phone.Mask(in.Phone))
		return nil, goerror.NewInvalidInput(nil, "phone", "must be a valid mobile number")
	}

	window := s.cfg.GetSecond("modules.auth.resend_cooldown_seconds")
	err = s.cooldown.Acquire(ctx, phoneE164, window)
	if errors.Is(err, cooldown.ErrActive) {
		wait := window
		if remaining, rerr := s.cooldown.Remaining(ctx, phoneE164); rerr == nil && remaining > 0 {
			wait = remaining
		}
		slog.WarnContext(ctx, "resend requested inside cooldown window", "phone", phone.Mask(phoneE164), "wait", wait)
		return nil, goerror.NewBusiness(
			fmt.Sprintf("please wait %d seconds before requesting another code", int(wait.Round(time.Second).Seconds())),
			goerror.CodeTooManyRequest,
		)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire resend cooldown", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.codes.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		s.releaseCooldown(ctx, phoneE164)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.InvalidateOTP(ctx, phoneE164); err != nil {
		slog.ErrorContext(ctx, "failed to repo invalidate previous code", "error", err)
		s.releaseCooldown(ctx, phoneE164)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoDB.CreateOTP(ctx, entity.OtpRecord{
		ID:        s.uid.Generate(),
		Phone:     phoneE164,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.GetMinute("modules.auth.code_ttl_minutes")),
		Attempts:  0,
		Verified:  false,
		CreatedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create verification code", "error", err)
		s.releaseCooldown(ctx, phoneE164)
		return nil, goerror.NewServer(err)
	}

	localPhone, err := phone.Localize(phoneE164)
	if err != nil {
		slog.ErrorContext(ctx, "failed to localize phone", "phone", phone.Mask(phoneE164), "error", err)
		s.releaseCooldown(ctx, phoneE164)
		return nil, goerror.NewServer(err)
	}

	if err := s.sms.Send(ctx, sms.Message{
		To:   localPhone,
		Body: fmt.Sprintf("Your Refundly verification code is: %s", code),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch verification sms", "phone", phone.Mask(phoneE164), "error", err)
		s.releaseCooldown(ctx, phoneE164)
		return nil, goerror.NewServer(err)
	}

	return &SendCodeOutput{Phone: phoneE164}, nil
}

// releaseCooldown drops the window when issuance fails so the caller can
// retry immediately instead of waiting out a code that never arrived.
func (s *Usecase) releaseCooldown(ctx context.Context, key string) {
	if err := s.cooldown.Release(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to release resend cooldown", "error", err)
	}
}
