package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"auth.html":        "<html>auth</html>",
		"budget_plan.html": "<html>planner</html>",
		"app.css":          "body {}",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestNamedPagesServed(t *testing.T) {
	handler := StaticSite(staticDir(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/budget_plan.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>planner</html>", rec.Body.String())
}

func TestRootServesAuthPage(t *testing.T) {
	handler := StaticSite(staticDir(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>auth</html>", rec.Body.String())
}

func TestUnknownPageFallsBackToAuth(t *testing.T) {
	handler := StaticSite(staticDir(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secret_admin.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>auth</html>", rec.Body.String())
}

func TestAssetsServedDirectly(t *testing.T) {
	handler := StaticSite(staticDir(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body {}", rec.Body.String())
}

func TestTraversalStaysInsideStaticDir(t *testing.T) {
	dir := staticDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "outside.txt"), []byte("nope"), 0o644))
	handler := StaticSite(dir)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/../outside.txt", nil)
	handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "nope", rec.Body.String())
}

func TestNonGetRejected(t *testing.T) {
	handler := StaticSite(staticDir(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
