// Package token issues and decodes the signed claims carried by the access
// and refresh cookies.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token cannot be parsed or its
	// signature does not verify.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken is returned when the signature is valid but the token
	// is at or past its expiry.
	ErrExpiredToken = errors.New("expired token")
	// ErrSigningFailed is an internal fault while serializing or signing.
	ErrSigningFailed = errors.New("token signing failed")
	// ErrInvalidClaims is returned by Issue for input Decode would reject.
	ErrInvalidClaims = errors.New("invalid token claims")
)

// MinLifetime is the shortest lifetime Issue accepts. Timestamps are
// encoded in whole seconds, so anything shorter can be stale on arrival.
const MinLifetime = time.Second

// Claims is the identity payload embedded in every token.
type Claims struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Codec signs and verifies tokens with a single HMAC secret. It holds no
// mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the wall clock used for issued-at and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a Codec for the given secret.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	c := &Codec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue builds claims for subject valid for lifetime starting now and
// returns the signed token.
func (c *Codec) Issue(subject string, lifetime time.Duration) (string, error) {
	raw, _, err := c.IssueClaims(subject, lifetime)
	return raw, err
}

// IssueClaims is Issue that also returns the claims as Decode will see them.
func (c *Codec) IssueClaims(subject string, lifetime time.Duration) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, fmt.Errorf("%w: empty subject", ErrInvalidClaims)
	}
	if lifetime < MinLifetime {
		return "", Claims{}, fmt.Errorf("%w: lifetime %s is shorter than %s", ErrInvalidClaims, lifetime, MinLifetime)
	}
	now := c.now()
	rc := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rc).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return signed, Claims{
		Subject:   subject,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}

// Decode verifies the signature and structure of raw, then its expiry.
// Only a token whose signature verifies can yield ErrExpiredToken.
func (c *Codec) Decode(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &rc,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// non-zero trailing bits in a segment must not alias a valid signature
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !tok.Valid || rc.IssuedAt == nil || rc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing required claims", ErrMalformedToken)
	}
	if !rc.ExpiresAt.After(rc.IssuedAt.Time) {
		return Claims{}, fmt.Errorf("%w: expiry not after issue time", ErrMalformedToken)
	}
	return Claims{
		Subject:   rc.Subject,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}
