package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/hash"
	"github.com/refundly/phonegate/internal/pkg/jwt"
)

func authedContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, UserPhone: testPhoneE164})
}

func TestLogout(t *testing.T) {
	t.Run("RevokesToken", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedSession(9, f.clock.now.Add(24*time.Hour))

		// Act
		err := f.uc.Logout(authedContext(), LogoutInput{RefreshToken: testRefreshToken})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tokenHash, _ := hash.NewHMACSHA256("token-secret").Hash(testRefreshToken)
		if !f.repo.tokens[string(tokenHash)].Revoked {
			t.Fatal("expected token revoked")
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		f := newFixture()

		err := f.uc.Logout(context.Background(), LogoutInput{RefreshToken: testRefreshToken})

		var ge *goerror.Error
		if !errors.As(err, &ge) || ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})

	t.Run("IgnoresMalformedToken", func(t *testing.T) {
		f := newFixture()

		if err := f.uc.Logout(authedContext(), LogoutInput{RefreshToken: "short"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
