package middleware

import (
	"net/http"

	"github.com/scoutreport/activityform/internal/ctxkeys"
	"github.com/scoutreport/activityform/internal/flash"
)

// Flash pops the pending flash message into the context on page loads.
// POSTs leave it alone; they always redirect to a page that shows it.
func Flash(store *flash.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			msg := store.Pop(w, r)
			if msg == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithFlash(r.Context(), msg)))
		})
	}
}
