package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/phone"
)

type VerifyCodeInput struct {
	Phone string `validate:"required,ilphone"`
	Code  string `validate:"required,len=6,numeric"`
	//
	ClientIP string
}

type VerifyCodeOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// VerifyCode checks a submitted code against the active record for the phone
// and, on success, resolves the account and issues a session.
//
// Checks run in a fixed order: record presence, expiry, attempt budget, then
// code comparison. Expiry wins over an exhausted attempt budget when both
// hold. A consumed record is deleted regardless of which check fired.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phoneE164, err := phone.Normalize(in.Phone)
	if err != nil {
		slog.WarnContext(ctx, "phone failed normalization", "phone", phone.Mask(in.Phone))
		return nil, goerror.NewInvalidInput(nil, "phone", "must be a valid mobile number")
	}

	rec, err := s.repoDB.GetActiveOTP(ctx, phoneE164)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no active code for phone", "phone", phone.Mask(phoneE164))
		return nil, goerror.NewBusiness("code not found, please request a new one", goerror.CodeBadRequest)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		s.discardOTP(ctx, phoneE164)
		slog.WarnContext(ctx, "verification code expired", "phone", phone.Mask(phoneE164))
		return nil, goerror.NewBusiness("code expired, please request a new one", goerror.CodeBadRequest)
	}

	if rec.Attempts >= s.cfg.GetInt32("modules.auth.max_attempts") {
		s.discardOTP(ctx, phoneE164)
		slog.WarnContext(ctx, "verification attempt budget exhausted", "phone", phone.Mask(phoneE164))
		return nil, goerror.NewBusiness("too many attempts, please request a new code", goerror.CodeBadRequest)
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(in.Code)) != 1 {
		if err := s.repoDB.IncrementOTPAttempts(ctx, phoneE164); err != nil {
			slog.ErrorContext(ctx, "failed to repo increment attempts", "error", err)
		}
		slog.WarnContext(ctx, "verification code mismatch", "phone", phone.Mask(phoneE164))
		return nil, goerror.NewBusiness("incorrect code", goerror.CodeBadRequest)
	}

	if err := s.repoDB.MarkOTPVerified(ctx, phoneE164); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark code verified", "error", err)
		return nil, goerror.NewServer(err)
	}

	account, created, err := s.resolveOrCreateAccount(ctx, phoneE164)
	if err != nil {
		return nil, err
	}

	// The code is spent once the account is resolved. Discard the record even
	// when issuance fails below so the same code can never verify twice.
	if err := s.ensureAccountStatusAllowed(ctx, account.ID, account.Status); err != nil {
		s.discardOTP(ctx, phoneE164)
		return nil, err
	}

	acToken, refToken, expiresIn, err := s.issueSession(ctx, account.ID, phoneE164)
	if err != nil {
		s.discardOTP(ctx, phoneE164)
		return nil, err
	}

	ev := PhoneVerifiedEvent{
		AccountID:  account.ID,
		Phone:      phoneE164,
		NewAccount: created,
		VerifiedAt: s.clock.Now().Unix(),
		ClientIP:   in.ClientIP,
	}
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishPhoneVerified(ctx, ev); err != nil {
			slog.WarnContext(ctx, "failed to publish phone verified event", "account_id", ev.AccountID, "error", err)
		}
		return nil
	})

	s.discardOTP(ctx, phoneE164)

	return &VerifyCodeOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// discardOTP removes a consumed or dead record. Losing the race against a
// concurrent delete is fine.
func (s *Usecase) discardOTP(ctx context.Context, phoneE164 string) {
	if err := s.repoDB.DeleteOTP(ctx, phoneE164); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "failed to repo delete code", "error", err)
	}
}

func (s *Usecase) resolveOrCreateAccount(ctx context.Context, phoneE164 string) (*entity.Account, bool, error) {
	account, err := s.repoDB.GetAccountByPhone(ctx, phoneE164)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by phone", "error", err)
		return nil, false, goerror.NewServer(err)
	}

	newAccount := entity.Account{
		ID:        s.uid.Generate(),
		Phone:     phoneE164,
		Status:    entity.AccountStatusActive,
		CreatedAt: s.clock.Now(),
	}

	err = s.repoDB.CreateAccount(ctx, newAccount)
	if errors.Is(err, goerror.ErrConflict) {
		// lost the race to a concurrent verification, use the winner's row
		account, err := s.repoDB.GetAccountByPhone(ctx, phoneE164)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo re-resolve account after conflict", "error", err)
			return nil, false, goerror.NewServer(err)
		}
		return account, false, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "error", err)
		return nil, false, goerror.NewServer(err)
	}

	return &newAccount, true, nil
}
