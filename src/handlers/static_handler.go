package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Named frontend pages. Every other page request falls through to the
// default entry, which keeps unauthenticated visitors on the auth page.
var pageTable = map[string]string{
	"":                 "auth.html",
	"auth.html":        "auth.html",
	"budget_plan.html": "budget_plan.html",
}

const defaultPage = "auth.html"

// StaticSite serves the frontend: named pages via the routing table, real
// assets straight from the static directory, and the default page for
// anything else.
func StaticSite(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		// Clean on the rooted path strips any ".." escapes.
		rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

		if page, ok := pageTable[rel]; ok {
			http.ServeFile(w, r, filepath.Join(dir, page))
			return
		}

		full := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			http.ServeFile(w, r, full)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, defaultPage))
	}
}
