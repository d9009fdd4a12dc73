// Package hash provides the hashing primitives used by the auth flow:
// bcrypt for the non-usable placeholder credentials of provisioned users and
// HMAC-SHA256 for refresh tokens at rest.
package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	// Hash returns the hashed form of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
