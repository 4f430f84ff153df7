package ports

// PasswordHasher produces and verifies one-way, self-salted password
// digests.
type PasswordHasher interface {
	// Hash digests a plaintext password for storage.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. A malformed digest
	// fails closed: the answer is false, never an error carrying secret
	// material.
	Verify(plaintext, digest string) bool
}
