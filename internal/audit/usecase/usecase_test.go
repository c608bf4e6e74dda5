package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refundly/phonegate/internal/audit/entity"
	"github.com/refundly/phonegate/internal/pkg/config"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/jwt"
	"github.com/refundly/phonegate/internal/pkg/validator"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqNumberID struct{ next int64 }

func (s *seqNumberID) Generate() int64 {
	s.next++
	return s.next
}

type fakeRepoDB struct {
	events    []entity.SignInEvent
	createErr error

	lastFilter entity.SignInEventFilter
	listErr    error
}

func (f *fakeRepoDB) CreateSignInEvent(_ context.Context, ev entity.SignInEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRepoDB) ListSignInEvents(_ context.Context, filter entity.SignInEventFilter) ([]entity.SignInEvent, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.lastFilter = filter

	var out []entity.SignInEvent
	for _, ev := range f.events {
		if ev.AccountID == filter.AccountID {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

type stubConfig struct{ config.Config }

func (stubConfig) GetInt32(key string) int32 {
	if key == "modules.audit.default_page_size" {
		return 20
	}
	return 0
}

type fixture struct {
	repo *fakeRepoDB
	uc   *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	repo := &fakeRepoDB{}
	uc := New(Dependency{
		RepoDB:     repo,
		Validator:  v,
		Config:     stubConfig{},
		UID:        &seqNumberID{},
		Clock:      &fakeClock{now: testNow},
		Instrument: instrument.NewNoop(),
	})

	return &fixture{repo: repo, uc: uc}
}

func authedContext(accountID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: accountID})
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %v, got nil", want)
	}
	var ge *goerror.Error
	if !errors.As(err, &ge) || ge.Code() != want {
		t.Fatalf("expected error with code %v, got %v", want, err)
	}
}
