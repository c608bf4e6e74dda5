package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
)

func (f *fixture) seedOTP(attempts int32, expiresAt time.Time) {
	f.repo.otps[testPhoneE164] = entity.OtpRecord{
		ID:        1,
		Phone:     testPhoneE164,
		Code:      testCode,
		ExpiresAt: expiresAt,
		Attempts:  attempts,
		CreatedAt: f.clock.now,
	}
}

func assertBadRequest(t *testing.T, err error) *goerror.Error {
	t.Helper()
	var ge *goerror.Error
	if !errors.As(err, &ge) || ge.Code() != goerror.CodeBadRequest {
		t.Fatalf("expected bad-request flow error, got %v", err)
	}
	return ge
}

func TestVerifyCode(t *testing.T) {
	t.Run("SuccessNewAccount", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(5*time.Minute))

		// Act
		out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{
			Phone:    testPhoneLocal,
			Code:     testCode,
			ClientIP: "203.0.113.9",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken == "" || out.RefreshToken != testOpaqueID {
			t.Fatalf("expected a session, got %+v", out)
		}
		if out.ExpiresIn != int64((15 * time.Minute).Seconds()) {
			t.Fatalf("unexpected expires_in: %d", out.ExpiresIn)
		}

		if _, ok := f.repo.otps[testPhoneE164]; ok {
			t.Fatal("expected record deleted after successful verification")
		}

		acc, ok := f.repo.accounts[testPhoneE164]
		if !ok || acc.Status != entity.AccountStatusActive {
			t.Fatalf("expected active account, got %+v", acc)
		}

		if err := f.gorout.Wait(); err != nil {
			t.Fatalf("unexpected goroutine error: %v", err)
		}
		if len(f.msg.events) != 1 {
			t.Fatalf("expected 1 published event, got %d", len(f.msg.events))
		}
		ev := f.msg.events[0]
		if ev.AccountID != acc.ID || !ev.NewAccount || ev.Phone != testPhoneE164 || ev.ClientIP != "203.0.113.9" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	})

	t.Run("SuccessExistingAccount", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(2, f.clock.now.Add(time.Minute))
		f.repo.accounts[testPhoneE164] = entity.Account{
			ID: 77, Phone: testPhoneE164, Status: entity.AccountStatusActive,
		}

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.gorout.Wait(); err != nil {
			t.Fatalf("unexpected goroutine error: %v", err)
		}
		if len(f.msg.events) != 1 || f.msg.events[0].AccountID != 77 || f.msg.events[0].NewAccount {
			t.Fatalf("expected existing-account event, got %+v", f.msg.events)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		assertBadRequest(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(-time.Second))

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		ge := assertBadRequest(t, err)
		if ge.Msg() != "code expired, please request a new one" {
			t.Fatalf("unexpected message: %q", ge.Msg())
		}
		if _, ok := f.repo.otps[testPhoneE164]; ok {
			t.Fatal("expected expired record deleted")
		}
	})

	t.Run("ExpiryWinsOverAttempts", func(t *testing.T) {
		// Arrange: record is both expired and out of attempts.
		f := newFixture()
		f.seedOTP(3, f.clock.now.Add(-time.Second))

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		ge := assertBadRequest(t, err)
		if ge.Msg() != "code expired, please request a new one" {
			t.Fatalf("expected expiry outcome, got %q", ge.Msg())
		}
	})

	t.Run("AttemptsExhausted", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(3, f.clock.now.Add(time.Minute))

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		ge := assertBadRequest(t, err)
		if ge.Msg() != "too many attempts, please request a new code" {
			t.Fatalf("unexpected message: %q", ge.Msg())
		}
		if _, ok := f.repo.otps[testPhoneE164]; ok {
			t.Fatal("expected record deleted after exhausted budget")
		}
	})

	t.Run("MismatchIncrementsAttempts", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(time.Minute))

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: "000000"})

		// Assert
		ge := assertBadRequest(t, err)
		if ge.Msg() != "incorrect code" {
			t.Fatalf("unexpected message: %q", ge.Msg())
		}
		if got := f.repo.otps[testPhoneE164].Attempts; got != 1 {
			t.Fatalf("expected 1 attempt recorded, got %d", got)
		}
	})

	t.Run("ThirdMismatchThenCorrectCodeRejected", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(time.Minute))

		// Act: burn the attempt budget, then present the right code.
		for range 3 {
			_, _ = f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: "000000"})
		}
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		ge := assertBadRequest(t, err)
		if ge.Msg() != "too many attempts, please request a new code" {
			t.Fatalf("unexpected message: %q", ge.Msg())
		}
	})

	t.Run("BlockedAccount", func(t *testing.T) {
		// Arrange
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(time.Minute))
		f.repo.accounts[testPhoneE164] = entity.Account{
			ID: 5, Phone: testPhoneE164, Status: entity.AccountStatusBlocked,
		}

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		var ge *goerror.Error
		if !errors.As(err, &ge) || ge.Code() != goerror.CodeForbidden {
			t.Fatalf("expected forbidden error, got %v", err)
		}
		if _, ok := f.repo.otps[testPhoneE164]; ok {
			t.Fatal("expected record to be deleted for a blocked account")
		}
	})

	t.Run("IssuanceFailureConsumesCode", func(t *testing.T) {
		// Arrange: the account resolves but persisting the refresh token fails.
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(time.Minute))
		f.repo.errCreateRefreshToken = errors.New("db down")

		// Act
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		var ge *goerror.Error
		if !errors.As(err, &ge) || ge.Code() != goerror.CodeInternal {
			t.Fatalf("expected internal error, got %v", err)
		}
		if _, ok := f.repo.otps[testPhoneE164]; ok {
			t.Fatal("expected record to be deleted after issuance failure")
		}

		// the same code must not verify a second time
		f.repo.errCreateRefreshToken = nil
		_, err = f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})
		ge = assertBadRequest(t, err)
		if ge.Msg() != "code not found, please request a new one" {
			t.Fatalf("expected code not found on retry, got %q", ge.Msg())
		}
	})

	t.Run("AccountCreationConflictReresolves", func(t *testing.T) {
		// Arrange: insert loses the race, the winner's row must be reused.
		f := newFixture()
		f.seedOTP(0, f.clock.now.Add(time.Minute))
		f.repo.conflictWinner = &entity.Account{
			ID: 31, Phone: testPhoneE164, Status: entity.AccountStatusActive,
		}

		// Act
		out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Phone: testPhoneLocal, Code: testCode})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatal("expected a session for the re-resolved account")
		}
		if err := f.gorout.Wait(); err != nil {
			t.Fatalf("unexpected goroutine error: %v", err)
		}
		if len(f.msg.events) != 1 || f.msg.events[0].AccountID != 31 || f.msg.events[0].NewAccount {
			t.Fatalf("expected event for the winner account, got %+v", f.msg.events)
		}
	})
}
