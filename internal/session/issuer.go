// Package session mints access/refresh token pairs and moves them between
// the server and the client as HTTP-only cookies.
package session

import (
	"fmt"
	"time"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
)

// Pair is a freshly minted access/refresh token pair for one subject.
type Pair struct {
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}

// Issuer produces token pairs. It persists nothing: the pair is handed to
// the caller, which sets it as cookies.
type Issuer struct {
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(codec *token.Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueSession mints an access and a refresh token for subject.
func (i *Issuer) IssueSession(subject string) (Pair, error) {
	access, err := i.codec.Issue(subject, i.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, claims, err := i.codec.IssueClaims(subject, i.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return Pair{
		Access:           access,
		Refresh:          refresh,
		RefreshExpiresAt: claims.ExpiresAt,
	}, nil
}

// IssueAccess mints a single access token, used when rotating an expired one.
func (i *Issuer) IssueAccess(subject string) (string, error) {
	access, err := i.codec.Issue(subject, i.accessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}
