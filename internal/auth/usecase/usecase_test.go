package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/cooldown"
	"github.com/refundly/phonegate/internal/pkg/goerror"
	"github.com/refundly/phonegate/internal/pkg/goroutine"
	"github.com/refundly/phonegate/internal/pkg/hash"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/jwt"
	"github.com/refundly/phonegate/internal/pkg/sms"
	"github.com/refundly/phonegate/internal/pkg/validator"
)

// ---- shared fakes ---- //

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqNumberID struct{ next int64 }

func (g *seqNumberID) Generate() int64 {
	g.next++
	return g.next
}

type fixedStringID struct{ id string }

func (g fixedStringID) Generate() string { return g.id }

type fixedCodes struct {
	code string
	err  error
}

func (g fixedCodes) Generate() (string, error) { return g.code, g.err }

type fakeCooldown struct {
	mu        sync.Mutex
	active    map[string]bool
	err       error
	acquired  []string
	released  []string
	remaining time.Duration
}

func (c *fakeCooldown) Acquire(_ context.Context, key string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.active[key] {
		return cooldown.ErrActive
	}
	if c.active == nil {
		c.active = make(map[string]bool)
	}
	c.active[key] = true
	c.acquired = append(c.acquired, key)
	return nil
}

func (c *fakeCooldown) Remaining(_ context.Context, _ string) (time.Duration, error) {
	return c.remaining, nil
}

func (c *fakeCooldown) Release(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, key)
	c.released = append(c.released, key)
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sms.Message
	err  error
}

func (f *fakeSMS) Send(_ context.Context, msg sms.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSMS) Close() error { return nil }

type fakeMessaging struct {
	mu     sync.Mutex
	events []PhoneVerifiedEvent
	err    error
}

func (f *fakeMessaging) PublishPhoneVerified(_ context.Context, msg PhoneVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

// ---- in-memory repo ---- //

type storedRefreshToken struct {
	entity.RefreshToken
	replacedByTokenID *int64
}

type fakeRepoDB struct {
	mu       sync.Mutex
	otps     map[string]entity.OtpRecord
	accounts map[string]entity.Account
	tokens   map[string]*storedRefreshToken

	errCreateOTP          error
	errCreateRefreshToken error

	// conflictWinner, when set, makes CreateAccount fail with ErrConflict and
	// insert this row instead, as if a concurrent request won the insert race.
	conflictWinner *entity.Account
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		otps:     make(map[string]entity.OtpRecord),
		accounts: make(map[string]entity.Account),
		tokens:   make(map[string]*storedRefreshToken),
	}
}

func (f *fakeRepoDB) GetActiveOTP(_ context.Context, phone string) (*entity.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.otps[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeRepoDB) InvalidateOTP(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.otps, phone)
	return nil
}

func (f *fakeRepoDB) CreateOTP(_ context.Context, rec entity.OtpRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCreateOTP != nil {
		return f.errCreateOTP
	}
	if _, ok := f.otps[rec.Phone]; ok {
		return goerror.ErrConflict
	}
	f.otps[rec.Phone] = rec
	return nil
}

func (f *fakeRepoDB) IncrementOTPAttempts(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.otps[phone]
	if !ok {
		return nil
	}
	rec.Attempts++
	f.otps[phone] = rec
	return nil
}

func (f *fakeRepoDB) MarkOTPVerified(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.otps[phone]
	if !ok {
		return goerror.ErrNotFound
	}
	rec.Verified = true
	f.otps[phone] = rec
	return nil
}

func (f *fakeRepoDB) DeleteOTP(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.otps[phone]; !ok {
		return goerror.ErrNotFound
	}
	delete(f.otps, phone)
	return nil
}

func (f *fakeRepoDB) GetAccountByPhone(_ context.Context, phone string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (f *fakeRepoDB) CreateAccount(_ context.Context, acc entity.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictWinner != nil {
		f.accounts[f.conflictWinner.Phone] = *f.conflictWinner
		return goerror.ErrConflict
	}
	if _, ok := f.accounts[acc.Phone]; ok {
		return goerror.ErrConflict
	}
	f.accounts[acc.Phone] = acc
	return nil
}

func (f *fakeRepoDB) GetAccountRefreshToken(_ context.Context, tokenHash string) (*entity.AccountRefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[tokenHash]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	var acc entity.Account
	for _, a := range f.accounts {
		if a.ID == rt.AccountID {
			acc = a
			break
		}
	}

	return &entity.AccountRefreshToken{
		AccountID:                rt.AccountID,
		AccountPhone:             acc.Phone,
		AccountStatus:            acc.Status,
		RefreshID:                rt.ID,
		RefreshRevoked:           rt.Revoked,
		RefreshReplacedByTokenID: rt.replacedByTokenID,
		RefreshExpiresAt:         rt.ExpiresAt,
	}, nil
}

func (f *fakeRepoDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCreateRefreshToken != nil {
		return f.errCreateRefreshToken
	}
	f.tokens[in.Token] = &storedRefreshToken{RefreshToken: in}
	return nil
}

func (f *fakeRepoDB) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.ID == ro.OldID {
			if rt.Revoked {
				return goerror.ErrNotFound
			}
			rt.Revoked = true
			newID := ro.NewID
			rt.replacedByTokenID = &newID
			f.tokens[ro.NewToken] = &storedRefreshToken{RefreshToken: entity.RefreshToken{
				ID:        ro.NewID,
				AccountID: ro.AccountID,
				Token:     ro.NewToken,
				ExpiresAt: ro.NewExpiresAt,
			}}
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (f *fakeRepoDB) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.tokens[tokenHash]; ok {
		rt.Revoked = true
	}
	return nil
}

func (f *fakeRepoDB) RevokeAllRefreshToken(_ context.Context, accountID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.AccountID == accountID {
			rt.Revoked = true
		}
	}
	return nil
}

// ---- config fake ---- //

type stubConfig struct {
	durations map[string]time.Duration
	ints      map[string]int32
	strings   map[string]string
}

func newStubConfig() *stubConfig {
	return &stubConfig{
		durations: map[string]time.Duration{
			"modules.auth.resend_cooldown_seconds": 60 * time.Second,
			"modules.auth.code_ttl_minutes":        5 * time.Minute,
			"modules.auth.refresh_token_ttl_days":  30 * 24 * time.Hour,
			"jwt.ttl_minutes":                      15 * time.Minute,
		},
		ints:    map[string]int32{"modules.auth.max_attempts": 3},
		strings: map[string]string{},
	}
}

func (c *stubConfig) Close() error                        { return nil }
func (c *stubConfig) GetSecond(key string) time.Duration  { return c.durations[key] }
func (c *stubConfig) GetMinute(key string) time.Duration  { return c.durations[key] }
func (c *stubConfig) GetHour(key string) time.Duration    { return c.durations[key] }
func (c *stubConfig) GetDay(key string) time.Duration     { return c.durations[key] }
func (c *stubConfig) GetInt(key string) int               { return int(c.ints[key]) }
func (c *stubConfig) GetInt32(key string) int32           { return c.ints[key] }
func (c *stubConfig) GetInt64(key string) int64           { return int64(c.ints[key]) }
func (c *stubConfig) GetUint(key string) uint             { return uint(c.ints[key]) }
func (c *stubConfig) GetUint16(key string) uint16         { return uint16(c.ints[key]) }
func (c *stubConfig) GetUint32(key string) uint32         { return uint32(c.ints[key]) }
func (c *stubConfig) GetUint64(key string) uint64         { return uint64(c.ints[key]) }
func (c *stubConfig) GetFloat32(key string) float32       { return float32(c.ints[key]) }
func (c *stubConfig) GetFloat64(key string) float64       { return float64(c.ints[key]) }
func (c *stubConfig) GetBool(string) bool                 { return false }
func (c *stubConfig) GetString(key string) string         { return c.strings[key] }
func (c *stubConfig) GetBinary(string) []byte             { return nil }
func (c *stubConfig) GetArray(string) []string            { return nil }
func (c *stubConfig) GetMap(string) map[string]string     { return nil }

// ---- fixture ---- //

type fixture struct {
	uc     *Usecase
	repo   *fakeRepoDB
	msg    *fakeMessaging
	sms    *fakeSMS
	cool   *fakeCooldown
	clock  *fakeClock
	gorout *goroutine.Manager
}

const (
	testPhoneLocal = "0501234567"
	testPhoneE164  = "+972501234567"
	testCode       = "123456"
	testOpaqueID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func newFixture() *fixture {
	v, err := validator.NewV10Validator()
	if err != nil {
		panic(err)
	}

	clk := &fakeClock{now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
	tokenIssuer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:     "phonegate",
		Audiences:  []string{"refundly-web"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       fixedStringID{id: "token-id"},
	})
	if err != nil {
		panic(err)
	}

	repo := newFakeRepoDB()
	msg := &fakeMessaging{}
	smsSender := &fakeSMS{}
	cool := &fakeCooldown{}
	gorout := goroutine.NewManager(10)

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		Validator:     v,
		Config:        newStubConfig(),
		Cooldown:      cool,
		SMS:           smsSender,
		Codes:         fixedCodes{code: testCode},
		HMAC:          hash.NewHMACSHA256("token-secret"),
		UID:           &seqNumberID{},
		OID:           fixedStringID{id: testOpaqueID},
		Clock:         clk,
		JWT:           tokenIssuer,
		Instrument:    instrument.NewNoop(),
		Goroutine:     gorout,
	})

	return &fixture{
		uc:     uc,
		repo:   repo,
		msg:    msg,
		sms:    smsSender,
		cool:   cool,
		clock:  clk,
		gorout: gorout,
	}
}
