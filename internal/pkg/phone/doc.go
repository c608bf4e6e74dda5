// Package phone normalizes mobile numbers between the local 0-prefixed
// form users type and the canonical E.164 form the service stores.
//
// Normalization is idempotent: feeding a canonical number back in returns
// the same value.
package phone
