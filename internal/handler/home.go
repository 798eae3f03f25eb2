package handler

import (
	"net/http"

	"github.com/scoutreport/activityform/internal/ui"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Uptime is the static health page polled by uptime monitors.
func (h *HomeHandler) Uptime(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.UptimePage())
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	notFound(w, r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, ui.NotFoundPage())
}
