// Package auth holds the per-request gate that protects API routes.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
)

// Outcome names the state a request lands in after token inspection.
type Outcome string

const (
	OutcomeNoAccessToken               Outcome = "no_access_token"
	OutcomeValidAccess                 Outcome = "valid_access"
	OutcomeExpiredAccessNoRefresh      Outcome = "expired_access_no_refresh"
	OutcomeExpiredAccessValidRefresh   Outcome = "expired_access_valid_refresh"
	OutcomeExpiredAccessInvalidRefresh Outcome = "expired_access_invalid_refresh"
	OutcomeInvalidAccess               Outcome = "invalid_access"
	OutcomeInternalError               Outcome = "internal_error"
)

type decoder interface {
	Decode(raw string) (token.Claims, error)
}

type accessIssuer interface {
	IssueAccess(subject string) (string, error)
}

// Gate validates the access cookie and, when it has expired, rotates it
// using the refresh cookie. There is no server-side session state: parallel
// requests arriving just after expiry each mint their own access token and
// the client keeps whichever Set-Cookie it processes last.
type Gate struct {
	codec   decoder
	issuer  accessIssuer
	cookies session.CookieOptions
	logger  *zap.SugaredLogger
	metrics *metrics.Gate
}

// NewGate builds a Gate. m may be nil.
func NewGate(codec decoder, issuer accessIssuer, cookies session.CookieOptions, logger *zap.SugaredLogger, m *metrics.Gate) *Gate {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gate{codec: codec, issuer: issuer, cookies: cookies, logger: logger, metrics: m}
}

type decision struct {
	outcome   Outcome
	claims    token.Claims
	newAccess string
	err       error
}

// Middleware wraps next so that it only runs for requests carrying a valid
// (or successfully rotated) access token.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.evaluate(r)
		g.metrics.Observe(string(d.outcome))

		switch d.outcome {
		case OutcomeValidAccess:
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), d.claims)))
		case OutcomeExpiredAccessValidRefresh:
			g.metrics.Rotated()
			g.logger.Infow("access token rotated", "subject", d.claims.Subject, "path", r.URL.Path)
			// headers must be in place before the handler writes the status line
			session.SetAccessCookie(w, d.newAccess, g.cookies)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), d.claims)))
		case OutcomeInternalError:
			g.logger.Errorw("access token rotation failed", "err", d.err)
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			g.logger.Debugw("request rejected by auth gate", "outcome", d.outcome, "path", r.URL.Path, "err", d.err)
			writeError(w, http.StatusUnauthorized, rejectMessage(d.outcome))
		}
	})
}

func (g *Gate) evaluate(r *http.Request) decision {
	access, ok := cookieValue(r, session.AccessCookieName)
	if !ok {
		return decision{outcome: OutcomeNoAccessToken}
	}

	claims, err := g.codec.Decode(access)
	if err == nil {
		return decision{outcome: OutcomeValidAccess, claims: claims}
	}
	if !errors.Is(err, token.ErrExpiredToken) {
		return decision{outcome: OutcomeInvalidAccess, err: err}
	}

	refresh, ok := cookieValue(r, session.RefreshCookieName)
	if !ok {
		return decision{outcome: OutcomeExpiredAccessNoRefresh}
	}
	refreshClaims, err := g.codec.Decode(refresh)
	if err != nil {
		return decision{outcome: OutcomeExpiredAccessInvalidRefresh, err: err}
	}

	fresh, err := g.issuer.IssueAccess(refreshClaims.Subject)
	if err != nil {
		return decision{outcome: OutcomeInternalError, err: err}
	}
	return decision{outcome: OutcomeExpiredAccessValidRefresh, claims: refreshClaims, newAccess: fresh}
}

// cookieValue reports whether the cookie was sent at all. A present but
// empty cookie is handed to the decoder and rejected as a bad token.
func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func rejectMessage(o Outcome) string {
	switch o {
	case OutcomeNoAccessToken:
		return "missing token"
	case OutcomeExpiredAccessNoRefresh:
		return "missing refresh token"
	case OutcomeExpiredAccessInvalidRefresh:
		return "invalid or expired refresh token"
	default:
		return "invalid token"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
