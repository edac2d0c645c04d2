package session

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// CookieOptions defines how token cookies are issued.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// SetAccessCookie writes the access token as a session cookie; the signed
// payload carries its own short expiry.
func SetAccessCookie(w http.ResponseWriter, value string, opts CookieOptions) {
	http.SetCookie(w, newCookie(AccessCookieName, value, opts))
}

// SetRefreshCookie writes the refresh token with an explicit far-future expiry.
func SetRefreshCookie(w http.ResponseWriter, value string, expiresAt time.Time, opts CookieOptions) {
	c := newCookie(RefreshCookieName, value, opts)
	c.Expires = expiresAt
	http.SetCookie(w, c)
}

// SetPair writes both cookies of a freshly issued pair.
func SetPair(w http.ResponseWriter, p Pair, opts CookieOptions) {
	SetAccessCookie(w, p.Access, opts)
	SetRefreshCookie(w, p.Refresh, p.RefreshExpiresAt, opts)
}

// ClearCookies emits removal cookies for both tokens. The output does not
// depend on the request, so repeated calls are identical.
func ClearCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c := newCookie(name, "", opts)
		c.Expires = time.Unix(0, 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func newCookie(name, value string, opts CookieOptions) *http.Cookie {
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: sameSite,
	}
}
