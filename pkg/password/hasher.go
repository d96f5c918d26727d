// Package password hashes and verifies account passwords.
package password

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names a hashing scheme selectable from configuration.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

var (
	// ErrEmptyPassword is returned when hashing or verifying an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrPasswordTooLong is returned by bcrypt for inputs over 72 bytes.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
	// ErrInvalidHash is returned when a stored hash cannot be parsed.
	ErrInvalidHash = errors.New("invalid password hash format")
)

// Hasher produces and checks opaque password hashes.
type Hasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks if the provided password matches the stored hash.
	// A mismatch is reported as (false, nil).
	Verify(password, hashedPassword string) (bool, error)
}

// New returns the hasher for algo. New hashes are produced with algo, while
// Verify accepts hashes from every supported scheme so the algorithm can be
// switched without invalidating stored passwords.
func New(algo Algorithm) (Hasher, error) {
	bc := NewBcryptHasher(0)
	ag := NewArgon2Hasher()

	switch Algorithm(strings.ToLower(string(algo))) {
	case AlgorithmBcrypt, "":
		return &multiHasher{primary: bc, bcrypt: bc, argon2: ag}, nil
	case AlgorithmArgon2id:
		return &multiHasher{primary: ag, bcrypt: bc, argon2: ag}, nil
	default:
		return nil, fmt.Errorf("unsupported password hasher: %q", algo)
	}
}

type multiHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (m *multiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *multiHasher) Verify(password, hashedPassword string) (bool, error) {
	if strings.HasPrefix(hashedPassword, "$argon2id$") {
		return m.argon2.Verify(password, hashedPassword)
	}
	return m.bcrypt.Verify(password, hashedPassword)
}
