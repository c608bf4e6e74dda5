package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refundly/phonegate/internal/audit/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
)

func TestListSignIns(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repo.events = []entity.SignInEvent{
			{ID: 1, AccountID: 7, Phone: "+972501234567", OccurredAt: testNow},
			{ID: 2, AccountID: 7, Phone: "+972501234567", OccurredAt: testNow.Add(-time.Hour)},
			{ID: 3, AccountID: 9, Phone: "+972509999999", OccurredAt: testNow},
		}

		// Act
		resp, err := f.uc.ListSignIns(authedContext(7), ListSignInsInput{Limit: 50, Offset: 0})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(resp.Events) != 2 || resp.Total != 2 {
			t.Fatalf("expected 2 events for account, got %d (total %d)", len(resp.Events), resp.Total)
		}
		if f.repo.lastFilter.AccountID != 7 || f.repo.lastFilter.Limit != 50 {
			t.Fatalf("unexpected filter: %+v", f.repo.lastFilter)
		}
	})

	t.Run("DefaultPageSize", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.ListSignIns(authedContext(7), ListSignInsInput{})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.repo.lastFilter.Limit != 20 {
			t.Fatalf("expected configured default page size 20, got %d", f.repo.lastFilter.Limit)
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.ListSignIns(context.Background(), ListSignInsInput{})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.ListSignIns(authedContext(7), ListSignInsInput{Limit: 101})

		// Assert
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repo.listErr = errors.New("db down")

		// Act
		_, err := f.uc.ListSignIns(authedContext(7), ListSignInsInput{})

		// Assert
		assertCode(t, err, goerror.CodeInternal)
	})
}
