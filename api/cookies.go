package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/blog-platform/errs"
)

const sessionCookieName = "access_token"

type sessionCookies struct {
	secure bool
	now    func() time.Time
}

func newSessionCookies(secure bool) sessionCookies {
	return sessionCookies{secure: secure, now: time.Now}
}

// set stores token in an HttpOnly cookie that lives as long as the token.
func (c sessionCookies) set(w http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expiresAt.IsZero() {
		if maxAge := int(expiresAt.Sub(c.now()).Seconds()); maxAge > 0 {
			cookie.MaxAge = maxAge
		}
	}
	http.SetCookie(w, cookie)
}

func (c sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// sessionToken reads the access_token cookie. A missing or empty cookie is
// a missing-token error.
func sessionToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", errs.NewMissingTokenError()
	}
	return cookie.Value, nil
}
