package hash

// Hash hashes secrets and verifies plaintext input against stored hashes.
type Hash interface {
	// Hash returns the hash of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str matches the stored hash.
	Verify(hashed, str string) bool
}
