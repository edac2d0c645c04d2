// Package credential hashes and verifies user passwords.
package credential

import (
	"errors"
	"fmt"
)

// ErrMismatch is the only failure Verify reports. Malformed stored hashes
// collapse into it so callers cannot tell the two apart.
var ErrMismatch = errors.New("invalid credentials")

// Hasher is a one-way salted password hash. Two Hash calls with the same
// input yield different outputs; Verify is the only valid comparison.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, stored string) error
}

// New returns the hasher registered under name ("argon2id" or "bcrypt").
func New(name string) (Hasher, error) {
	switch name {
	case "", "argon2id":
		return NewArgon2(DefaultArgon2Params()), nil
	case "bcrypt":
		return Bcrypt{Cost: 12}, nil
	default:
		return nil, fmt.Errorf("credential: unknown hasher %q", name)
	}
}
