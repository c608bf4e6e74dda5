package jwt

import (
	"errors"
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedUUID struct{ id string }

func (g fixedUUID) Generate() string { return g.id }

func testConfig(now time.Time, ttl time.Duration) Config {
	return Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:     "phonegate",
		Audiences:  []string{"refundly-web"},
		TTLMinutes: ttl,
		Clock:      fixedClock{now: now},
		UUID:       fixedUUID{id: "tid-1"},
	}
}

func TestNewHS512(t *testing.T) {
	t.Run("ShortSecret", func(t *testing.T) {
		cfg := testConfig(time.Now(), time.Minute)
		cfg.Secret = []byte("too-short")

		if _, err := NewHS512(cfg); err != ErrSigningKeyTooShort {
			t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
		}
	})
}

func TestSymmetricRoundTrip(t *testing.T) {
	// Arrange
	now := time.Now()
	s, err := NewHS512(testConfig(now, 15*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	token, err := s.Generate(42, "+972501234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := s.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.UserPhone != "+972501234567" {
		t.Fatalf("unexpected phone claim: %q", claims.UserPhone)
	}
	if claims.Subject != "42" || claims.Issuer != "phonegate" {
		t.Fatalf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
}

func TestSymmetricVerify(t *testing.T) {
	t.Run("Expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		issuer, _ := NewHS512(testConfig(past, time.Minute))
		token, _ := issuer.Generate(1, "+972501234567")

		verifier, _ := NewHS512(testConfig(time.Now(), time.Minute))
		if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		issuer, _ := NewHS512(testConfig(time.Now(), time.Minute))
		token, _ := issuer.Generate(1, "+972501234567")

		cfg := testConfig(time.Now(), time.Minute)
		cfg.Secret = []byte("fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210")
		verifier, _ := NewHS512(cfg)

		if _, err := verifier.Verify(token); err == nil {
			t.Fatal("expected error for token signed with another key")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		verifier, _ := NewHS512(testConfig(time.Now(), time.Minute))
		if _, err := verifier.Verify("not-a-token"); err == nil {
			t.Fatal("expected error for malformed token")
		}
	})
}
