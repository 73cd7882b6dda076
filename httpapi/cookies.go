package httpapi

import (
	"net/http"
	"time"

	"github.com/LiquidN2/natours/middleware"
)

const (
	pendingEmailCookie    = "email"
	pendingRememberCookie = "remember"
)

func (a *API) sameSite() http.SameSite {
	if a.cookies.Production {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// setSessionCookie installs the bearer token as an http-only cookie. With
// remember the cookie carries an expiry; without it the cookie dies with
// the browser session.
func (a *API) setSessionCookie(w http.ResponseWriter, token string, remember bool) {
	c := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cookies.Production,
		SameSite: a.sameSite(),
	}
	if remember {
		c.Expires = time.Now().Add(a.cookies.RememberTTL)
	}
	http.SetCookie(w, c)
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   a.cookies.Production,
		SameSite: a.sameSite(),
	})
}

// setPendingCookies stashes the email and remember choice between the
// password step and the TOTP step of a two-factor login.
func (a *API) setPendingCookies(w http.ResponseWriter, email string, remember bool) {
	expires := time.Now().Add(pendingTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     pendingEmailCookie,
		Value:    email,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.cookies.Production,
		SameSite: a.sameSite(),
	})
	rememberVal := "false"
	if remember {
		rememberVal = "true"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     pendingRememberCookie,
		Value:    rememberVal,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.cookies.Production,
		SameSite: a.sameSite(),
	})
}

func (a *API) clearPendingCookies(w http.ResponseWriter) {
	for _, name := range []string{pendingEmailCookie, pendingRememberCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   a.cookies.Production,
			SameSite: a.sameSite(),
		})
	}
}

func pendingFromCookies(r *http.Request) (email string, remember bool, ok bool) {
	ec, err := r.Cookie(pendingEmailCookie)
	if err != nil || ec.Value == "" {
		return "", false, false
	}
	if rc, err := r.Cookie(pendingRememberCookie); err == nil {
		remember = rc.Value == "true"
	}
	return ec.Value, remember, true
}
