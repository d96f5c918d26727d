package session

import (
	"net/http"
	"time"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "token"

// CookieSetter writes and clears the session cookie. Production cookies are
// Secure with SameSite=None so a separately hosted frontend can send them;
// otherwise SameSite=Strict.
type CookieSetter struct {
	Name       string
	Path       string
	Production bool
}

// NewCookieSetter creates a new cookie setter
func NewCookieSetter(name string, production bool) *CookieSetter {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieSetter{Name: name, Path: "/", Production: production}
}

func (c *CookieSetter) sameSite() http.SameSite {
	if c.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

// Set writes token as an http-only cookie expiring with it.
func (c *CookieSetter) Set(w http.ResponseWriter, token Token) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Path:     c.Path,
		Value:    token.Value,
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
	})
}

// Clear expires the cookie on the client.
func (c *CookieSetter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Path:     c.Path,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
	})
}

// TokenFromRequest reads the session cookie.
func (c *CookieSetter) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
