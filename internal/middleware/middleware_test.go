package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/ctxkeys"
	"github.com/scoutreport/activityform/internal/flash"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(ok), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// Missing token
	req := httptest.NewRequest(http.MethodPost, "/toggle_checked/1", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Header token
	req = httptest.NewRequest(http.MethodPost, "/toggle_checked/1", nil)
	req.AddCookie(cookies[0])
	req.Header.Set(csrfHeader, token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Form token
	req = httptest.NewRequest(http.MethodPost, "/delete/1", strings.NewReader("csrf_token="+token))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := Chain(http.HandlerFunc(ok),
		Config(&config.Config{AppEnv: "production", S3Endpoint: "https://s3.example.com"}),
		NonceMiddleware,
		SecurityHeaders,
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-")
	assert.Contains(t, csp, "https://s3.example.com")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestFlash_PoppedOnGetOnly(t *testing.T) {
	store := flash.NewStore("secret", false)
	set := httptest.NewRecorder()
	store.Error(set, "At least one paragraph is required.")
	cookie := set.Result().Cookies()[0]

	var seen *flash.Message
	h := Flash(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Flash(r.Context())
	}))

	post := httptest.NewRequest(http.MethodPost, "/", nil)
	post.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), post)
	assert.Nil(t, seen)

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	get.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), get)
	require.NotNil(t, seen)
	assert.Equal(t, "At least one paragraph is required.", seen.Text)
}

func TestRateLimit_PerClientWindow(t *testing.T) {
	now := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	limiter := newWindowLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	h := rateLimit(limiter)(ok)

	post := func(remote, xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		rec := post("10.0.0.1:4000", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
	assert.Equal(t, "60", post("10.0.0.1:4000", "203.0.113.7").Header().Get("Retry-After"))

	// other clients are unaffected
	assert.Equal(t, http.StatusOK, post("198.51.100.1:5555", "").Code)

	// a new window starts fresh and forgets stale clients
	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, post("10.0.0.1:4000", "203.0.113.7").Code)
	assert.Len(t, limiter.clients, 1)
}

func TestCSRFProtection_ParsesMultipartForHandlers(t *testing.T) {
	var form *multipart.Form
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form = r.MultipartForm
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rec.Result().Cookies()[0]

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField(csrfField, cookie.Value))
	require.NoError(t, mw.WriteField("paragraphs[]", "opening circle"))
	part, err := mw.CreateFormFile("files[]", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, form)
	assert.Equal(t, []string{"opening circle"}, form.Value["paragraphs[]"])
	require.Len(t, form.File["files[]"], 1)
	assert.Equal(t, "notes.txt", form.File["files[]"][0].Filename)
}

func TestRequestLogging_RecordsRoute(t *testing.T) {
	mux := http.NewServeMux()
	var pattern string
	mux.HandleFunc("POST /toggle_checked/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h := Chain(mux, RequestLogging, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RecordRoute(next).ServeHTTP(w, r)
			pattern = r.Context().Value(routeKey{}).(*routeHolder).pattern
		})
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/toggle_checked/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POST /toggle_checked/{id}", pattern)
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
			return
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("paragraphs[]=long enough"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
