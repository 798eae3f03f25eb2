package middleware

import (
	"net/http"

	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/ctxkeys"
)

// Config middleware adds the sanitized app configuration to the request context.
// Secrets (SECRET_KEY, TELEGRAM_TOKEN, S3 keys) are stripped first.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), cfg.Sanitized())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}