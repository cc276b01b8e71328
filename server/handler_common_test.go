package server

import (
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEtagMatches(t *testing.T) {
	const etag = `"abc123"`
	assert.True(t, etagMatches(`"abc123"`, etag))
	assert.True(t, etagMatches(`W/"abc123"`, etag))
	assert.True(t, etagMatches(`"x", "abc123"`, etag))
	assert.True(t, etagMatches(`*`, etag))
	assert.False(t, etagMatches(`"abc"`, etag))
	assert.False(t, etagMatches(`abc123`, etag))
}

func TestTrimSlashHandler(t *testing.T) {
	var seen string
	h := trimSlashHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	}))
	for path, want := range map[string]string{
		"/":                  "/",
		"/feeds/":            "/feeds",
		"/mentions":          "/mentions",
		"/groups/emacs/":     "/groups/emacs",
		"/polls/votes/":      "/polls/votes",
		"/api/jobs/scan-now/": "/api/jobs/scan-now",
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, seen, path)
	}
}
