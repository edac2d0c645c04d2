package credential

import "golang.org/x/crypto/bcrypt"

// Bcrypt implementation.
type Bcrypt struct{ Cost int }

func (b Bcrypt) Hash(plaintext string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b Bcrypt) Verify(plaintext, stored string) error {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) != nil {
		return ErrMismatch
	}
	return nil
}
