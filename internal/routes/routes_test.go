package routes

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutreport/activityform/internal/app"
	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/repository"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newApp(t *testing.T) *app.App {
	t.Helper()

	cfg := &config.Config{
		AppName:          "Activity Report",
		AppEnv:           "development",
		SecretKey:        "test-secret",
		DBDriver:         "sqlite",
		DBConnection:     filepath.Join(t.TempDir(), "activities.db") + "?_pragma=foreign_keys(1)",
		Timezone:         "Asia/Beirut",
		NotifyQueueSize:  4,
		MaxUploadSize:    1 << 20,
		FailureRetention: time.Hour,
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRoutes_SubmitRoundTrip(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(SetupRoutes(a))
	defer srv.Close()

	client := srv.Client()
	client.Jar = newJar(t)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error { return http.ErrUseLastResponse }

	res, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Security-Policy"), "'nonce-")

	m := csrfInput.FindStringSubmatch(body)
	require.Len(t, m, 2)

	form := url.Values{
		"csrf_token":    {m[1]},
		"date":          {"2025-03-01"},
		"group":         {"Cedars"},
		"activity_type": {"Hike"},
		"paragraphs[]":  {"opening circle"},
	}
	res, err = client.PostForm(srv.URL+"/", form)
	require.NoError(t, err)
	_ = readBody(t, res)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	// The flash is shown once on the next page load.
	res, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, res), "Activity submitted.")

	res, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, res), "Activity submitted.")

	all, err := a.ActivityService.List(repository.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "opening circle", all[0].Paragraphs)
}

func TestRoutes_PostWithoutCSRFIsRejected(t *testing.T) {
	a := newApp(t)
	h := SetupRoutes(a)

	req := httptest.NewRequest(http.MethodPost, "/toggle_checked/1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_StaticAndMetrics(t *testing.T) {
	a := newApp(t)
	h := SetupRoutes(a)

	// /metrics last: the latency histogram needs an observed request.
	for _, tc := range []struct{ path, want string }{
		{"/assets/js/app.js", "toggle_checked"},
		{"/uptime", "is up"},
		{"/robots.txt", "Disallow: /"},
		{"/metrics", "activityform_http_request_duration_seconds"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.Contains(t, rec.Body.String(), tc.want, tc.path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer func() { _ = res.Body.Close() }()

	var b strings.Builder
	_, err := io.Copy(&b, res.Body)
	require.NoError(t, err)
	return b.String()
}

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}
