package httpserver

import (
	"net/http"
	"time"

	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
)

const refreshCookiePath = "/api/auth/refresh"

func refreshCookie(value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     authmw.RefreshCookie,
		Value:    value,
		Path:     refreshCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearRefreshCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     authmw.RefreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
