package validator

import (
	"errors"
	"testing"
)

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type sendInput struct {
		PhoneNumber string `validate:"required,ilphone"`
	}

	t.Run("Valid", func(t *testing.T) {
		if err := v.Validate(sendInput{PhoneNumber: "0501234567"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ValidE164", func(t *testing.T) {
		if err := v.Validate(sendInput{PhoneNumber: "+972501234567"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		err := v.Validate(sendInput{})

		var ve V10ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected V10ValidationError, got %T", err)
		}
		if _, ok := ve.Values()["phone_number"]; !ok {
			t.Fatalf("expected phone_number in field errors, got %v", ve.Values())
		}
	})

	t.Run("Landline", func(t *testing.T) {
		if err := v.Validate(sendInput{PhoneNumber: "031234567"}); err == nil {
			t.Fatal("expected error for non-mobile number")
		}
	})

	t.Run("Alphaspace", func(t *testing.T) {
		type named struct {
			FullName string `validate:"required,alphaspace"`
		}

		if err := v.Validate(named{FullName: "Dana Levi"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := v.Validate(named{FullName: "Dana1"}); err == nil {
			t.Fatal("expected error for digits in name")
		}
	})
}
