// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is for opaque tokens: store only the hash, then verify user
// input by comparing the plaintext against the stored hash. Implementations
// live behind a small interface.
package hash
