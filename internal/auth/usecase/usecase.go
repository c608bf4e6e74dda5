package usecase

import (
	"context"
	"log/slog"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/clock"
	"github.com/refundly/phonegate/internal/pkg/config"
	"github.com/refundly/phonegate/internal/pkg/cooldown"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/goroutine"
	"github.com/refundly/phonegate/internal/pkg/hash"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/jwt"
	"github.com/refundly/phonegate/internal/pkg/otp"
	"github.com/refundly/phonegate/internal/pkg/sms"
	"github.com/refundly/phonegate/internal/pkg/uid"
	"github.com/refundly/phonegate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type PhoneVerifiedEvent struct {
	AccountID  int64
	Phone      string
	NewAccount bool
	VerifiedAt int64
	ClientIP   string
}

type repoMessaging interface {
	PublishPhoneVerified(ctx context.Context, msg PhoneVerifiedEvent) error
}

type repoDB interface {
	GetActiveOTP(ctx context.Context, phone string) (*entity.OtpRecord, error)
	InvalidateOTP(ctx context.Context, phone string) error
	CreateOTP(ctx context.Context, rec entity.OtpRecord) error
	IncrementOTPAttempts(ctx context.Context, phone string) error
	MarkOTPVerified(ctx context.Context, phone string) error
	DeleteOTP(ctx context.Context, phone string) error

	GetAccountByPhone(ctx context.Context, phone string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.Account) error

	GetAccountRefreshToken(ctx context.Context, tokenHash string) (*entity.AccountRefreshToken, error)
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshToken(ctx context.Context, accountID int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	cooldown      cooldown.Guard
	sms           sms.SMS
	codes         otp.Generator
	hmac          hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Cooldown      cooldown.Guard
	SMS           sms.SMS
	Codes         otp.Generator
	HMAC          hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		cooldown:      dep.Cooldown,
		sms:           dep.SMS,
		codes:         dep.Codes,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) ensureAccountStatusAllowed(ctx context.Context, accountID int64, status entity.AccountStatus) error {
	switch status.Ensure() {
	case entity.AccountStatusBlocked:
		slog.WarnContext(ctx, "account is blocked", "account_id", accountID)
		return goerror.NewBusiness("account is blocked", goerror.CodeForbidden)

	case entity.AccountStatusUnknown:
		slog.WarnContext(ctx, "account status is unrecognized", "account_id", accountID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	default:
		return nil
	}
}

// issueSession creates an access/refresh token pair and persists the refresh
// token hash.
func (s *Usecase) issueSession(ctx context.Context, accountID int64, phoneE164 string) (accessToken, refreshToken string, expiresIn int64, err error) {
	acToken, err := s.jwt.Generate(accountID, phoneE164)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "account_id", accountID, "error", err)
		return "", "", 0, goerror.NewServer(err)
	}

	refToken := s.oid.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "account_id", accountID, "error", err)
		return "", "", 0, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		AccountID: accountID,
		Token:     string(refTokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.auth.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "account_id", accountID, "error", err)
		return "", "", 0, goerror.NewServer(err)
	}

	expiresIn = int64(s.cfg.GetMinute("jwt.ttl_minutes").Seconds())

	return acToken, refToken, expiresIn, nil
}
