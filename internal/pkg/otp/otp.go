package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Generator produces one-time codes.
type Generator interface {
	// Generate returns a new code.
	Generate() (string, error)
}

// Numeric generates fixed-length numeric codes.
//
// The first digit is never zero, so a 6-digit generator draws uniformly from
// 100000-999999.
type Numeric struct {
	min  int64
	span int64
}

// NewNumeric constructs a Numeric generator for codes of the given length.
// Lengths outside 4-8 fall back to 6.
func NewNumeric(length int) *Numeric {
	if length < 4 || length > 8 {
		length = 6
	}

	min := int64(1)
	for range length - 1 {
		min *= 10
	}

	return &Numeric{min: min, span: min*10 - min}
}

// Generate returns a new random numeric code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n.span))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.min+v.Int64(), 10), nil
}
