package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/scoutreport/activityform/internal/ctxkeys"
)

// MultipartMemory is how much of a multipart body stays in memory before
// file parts spill to disk. The CSRF check parses forms first, so this is
// the limit every handler sees.
const MultipartMemory = 8 << 20

const (
	csrfCookie = "csrf_token"
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
	csrfBytes  = 32
	csrfMaxAge = 7 * 24 * time.Hour
)

// CSRFProtection is a double-submit cookie check. Every request gets the
// token in its context; unsafe methods must echo it in the X-CSRF-Token
// header (toggle fetches) or the csrf_token form field.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := csrfToken(w, r)
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if !sameToken(token, submittedToken(r)) {
			slog.Warn("csrf validation failed", "path", r.URL.Path, "method", r.Method, "ip", clientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func submittedToken(r *http.Request) string {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token
	}

	err := r.ParseMultipartForm(MultipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("failed to parse form", "error", err, "path", r.URL.Path)
		return ""
	}
	return r.PostFormValue(csrfField)
}

// csrfToken returns the cookie token, issuing a new one when it is missing
// or malformed.
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && len(c.Value) == base64.RawURLEncoding.EncodedLen(csrfBytes) {
		return c.Value
	}

	b := make([]byte, csrfBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: " + err.Error())
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(csrfMaxAge.Seconds()),
	})

	return token
}

func sameToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
