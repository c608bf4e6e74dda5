package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
)

type RefreshSessionInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshSessionOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshSession rotates a refresh token and issues a new token pair.
func (s *Usecase) RefreshSession(ctx context.Context, in RefreshSessionInput) (*RefreshSessionOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshSession")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	oldTokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash old refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetAccountRefreshToken(ctx, string(oldTokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token not found")
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	// SECURITY CHECK: Reuse Detection for rotated tokens only.
	if rt.RefreshRevoked {
		if rt.RefreshReplacedByTokenID != nil {
			// CRITICAL: The caller presented a token that was already rotated.
			// This implies the token was stolen. Invalidate ALL tokens for this account.
			if err := s.repoDB.RevokeAllRefreshToken(ctx, rt.AccountID); err != nil {
				slog.ErrorContext(ctx, "failed to repo revoke all refresh tokens", "account_id", rt.AccountID, "error", err)
			}

			slog.WarnContext(ctx, "SECURITY: refresh token reuse detected")
			return nil, goerror.NewBusiness("token reuse detected, please sign in again", goerror.CodeForbidden)
		}

		slog.WarnContext(ctx, "refresh token is revoked", "refresh_token_id", rt.RefreshID)
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}

	if s.clock.Now().After(rt.RefreshExpiresAt) {
		slog.WarnContext(ctx, "refresh token is expired")
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}

	if err := s.ensureAccountStatusAllowed(ctx, rt.AccountID, rt.AccountStatus); err != nil {
		return nil, err
	}

	newRefreshToken := s.oid.Generate()
	newRefreshTokenHash, err := s.hmac.Hash(newRefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	acToken, err := s.jwt.Generate(rt.AccountID, rt.AccountPhone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "account_id", rt.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		NewID:        s.uid.Generate(),
		OldID:        rt.RefreshID,
		AccountID:    rt.AccountID,
		NewToken:     string(newRefreshTokenHash),
		NewExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.auth.refresh_token_ttl_days")),
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token already rotated or revoked", "refresh_token_id", rt.RefreshID)
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo rotate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshSessionOutput{
		AccessToken:  acToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.cfg.GetMinute("jwt.ttl_minutes").Seconds()),
	}, nil
}
