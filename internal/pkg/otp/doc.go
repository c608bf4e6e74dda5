// Package otp generates one-time passwords for SMS delivery.
//
// Codes are short-lived numeric secrets drawn from crypto/rand. Business code
// depends on the Generator interface so tests can substitute a fixed code.
package otp
