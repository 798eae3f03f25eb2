package routes

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scoutreport/activityform"
	"github.com/scoutreport/activityform/internal/app"
	"github.com/scoutreport/activityform/internal/handler"
	"github.com/scoutreport/activityform/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	activity := handler.NewActivityHandler(app.ActivityService, app.AttachmentService, app.Flash)
	seo := handler.NewSEOHandler("static")

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(activityform.AssetsFS, "assets")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health
	mux.HandleFunc("GET /uptime", home.Uptime)
	mux.HandleFunc("POST /uptime", home.Uptime)

	// Submission form (rate limited)
	rateLimiter := middleware.RateLimitSubmissions()
	mux.HandleFunc("GET /{$}", activity.FormPage)
	mux.HandleFunc("POST /{$}", rateLimiter(activity.Submit))

	// Review
	mux.HandleFunc("GET /activities", activity.List)
	mux.HandleFunc("POST /activities", activity.List)
	mux.HandleFunc("GET /edit/{id}", activity.EditPage)
	mux.HandleFunc("POST /edit/{id}", activity.Update)
	mux.HandleFunc("POST /delete/{id}", activity.Delete)
	mux.HandleFunc("POST /toggle_checked/{id}", activity.ToggleChecked)

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),                    // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware,                    // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders,                    // Security headers for all responses
		middleware.RequestLogging,                     // Logs and times every request
		middleware.MaxBodySize(app.Cfg.MaxUploadSize), // Caps uploads before CSRF parses the form
		middleware.CSRFProtection,                     // CSRF protection for all state-changing requests
		middleware.Flash(app.Flash),
		middleware.WithURLPath,
		middleware.RecordRoute, // Must stay last, next to the mux
	)

	return handler
}
