package phone

import (
	"errors"
	"strings"
)

// CountryCode is the international dialing prefix for supported numbers.
const CountryCode = "+972"

// ErrInvalidNumber is returned when the input cannot be normalized to a
// supported mobile number.
var ErrInvalidNumber = errors.New("phone: invalid mobile number")

// Normalize converts a raw phone input to canonical E.164 form.
//
// Accepted inputs, after stripping whitespace and punctuation:
//   - local mobile form: 05XXXXXXXX (10 digits)
//   - international form with or without the plus: +9725XXXXXXXX / 9725XXXXXXXX
//
// Normalizing an already-normalized number is a no-op.
func Normalize(raw string) (string, error) {
	s := stripSeparators(raw)
	if s == "" {
		return "", ErrInvalidNumber
	}

	switch {
	case strings.HasPrefix(s, CountryCode):
		// already international
	case strings.HasPrefix(s, "972"):
		s = "+" + s
	case strings.HasPrefix(s, "0"):
		// replace the national trunk prefix with the country code
		s = CountryCode + s[1:]
	default:
		return "", ErrInvalidNumber
	}

	rest := strings.TrimPrefix(s, CountryCode)
	if len(rest) != 9 || rest[0] != '5' || !allDigits(rest) {
		return "", ErrInvalidNumber
	}

	return s, nil
}

// Localize converts a canonical E.164 number back to the national
// 0-prefixed form some SMS gateways require.
func Localize(e164 string) (string, error) {
	normalized, err := Normalize(e164)
	if err != nil {
		return "", err
	}

	return "0" + strings.TrimPrefix(normalized, CountryCode), nil
}

// Mask returns a partially hidden representation safe for logs,
// keeping the country code and the last two digits.
func Mask(e164 string) string {
	if len(e164) < 6 {
		return "***"
	}

	return e164[:4] + strings.Repeat("*", len(e164)-6) + e164[len(e164)-2:]
}

// Valid reports whether raw normalizes to a supported mobile number.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

func stripSeparators(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			continue
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(s) > 0
}
