package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refundly/phonegate/internal/pkg/goerror"
)

func TestRecordSignIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		occurredAt := testNow.Add(-2 * time.Minute)

		// Act
		err := f.uc.RecordSignIn(context.Background(), RecordSignInInput{
			AccountID:  7,
			Phone:      "+972501234567",
			NewAccount: true,
			ClientIP:   "203.0.113.9",
			OccurredAt: occurredAt,
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.repo.events) != 1 {
			t.Fatalf("expected 1 stored event, got %d", len(f.repo.events))
		}
		ev := f.repo.events[0]
		if ev.ID == 0 {
			t.Fatal("expected event id to be generated")
		}
		if ev.AccountID != 7 || ev.Phone != "+972501234567" || !ev.NewAccount || ev.ClientIP != "203.0.113.9" {
			t.Fatalf("unexpected stored event: %+v", ev)
		}
		if !ev.OccurredAt.Equal(occurredAt) {
			t.Fatalf("expected occurred_at %v, got %v", occurredAt, ev.OccurredAt)
		}
		if !ev.CreatedAt.Equal(testNow) {
			t.Fatalf("expected created_at %v, got %v", testNow, ev.CreatedAt)
		}
	})

	t.Run("ZeroOccurredAtUsesClock", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.RecordSignIn(context.Background(), RecordSignInInput{AccountID: 7, Phone: "+972501234567"})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !f.repo.events[0].OccurredAt.Equal(testNow) {
			t.Fatalf("expected occurred_at to fall back to clock, got %v", f.repo.events[0].OccurredAt)
		}
	})

	t.Run("MissingAccountID", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.RecordSignIn(context.Background(), RecordSignInInput{Phone: "+972501234567"})

		// Assert
		assertCode(t, err, goerror.CodeInvalidInput)
		if len(f.repo.events) != 0 {
			t.Fatalf("expected no stored event, got %d", len(f.repo.events))
		}
	})

	t.Run("DuplicateDeliveryDropped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repo.createErr = goerror.ErrConflict

		// Act
		err := f.uc.RecordSignIn(context.Background(), RecordSignInInput{AccountID: 7, Phone: "+972501234567"})

		// Assert
		if err != nil {
			t.Fatalf("expected duplicate delivery to be dropped, got %v", err)
		}
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repo.createErr = errors.New("db down")

		// Act
		err := f.uc.RecordSignIn(context.Background(), RecordSignInInput{AccountID: 7, Phone: "+972501234567"})

		// Assert
		assertCode(t, err, goerror.CodeInternal)
	})
}
