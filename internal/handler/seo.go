package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

// defaultRobots keeps crawlers away from submitted reports.
const defaultRobots = `User-agent: *
Disallow: /
`

type SEOHandler struct {
	staticDir string
}

func NewSEOHandler(staticDir string) *SEOHandler {
	return &SEOHandler{staticDir: staticDir}
}

// Robots serves robots.txt, preferring an operator-supplied file.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content, err := os.ReadFile(filepath.Join(h.staticDir, "robots.txt"))
	if err != nil {
		content = []byte(defaultRobots)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(content)
}
