package security

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// CookiePolicy controls the attributes of the session cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// CookiePolicyFor tightens the cookie for production, where the frontend is
// served from another site.
func CookiePolicyFor(environment string) CookiePolicy {
	if environment == "production" {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookiePolicy{Secure: false, SameSite: http.SameSiteStrictMode}
}

// SessionCookie builds the cookie that stores token for ttl.
func (p CookiePolicy) SessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

// ClearedCookie expires the session cookie on the client.
func (p CookiePolicy) ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
