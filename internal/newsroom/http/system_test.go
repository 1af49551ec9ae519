package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	f := newBareFixture(t)

	t.Run("livez", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out HealthResponse
		decode(t, resp, &out)
		require.Equal(t, "ok", out.Status)
		require.Equal(t, "test", out.Version)
	})

	t.Run("readyz with a live database", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out HealthResponse
		decode(t, resp, &out)
		require.Equal(t, "ok", out.Status)
		require.Equal(t, "ok", out.Checks.Database)
	})
}

func TestLoginRateLimit(t *testing.T) {
	f := newFixture(t)

	// Burn through the strict per-IP budget with bad credentials.
	var last *http.Response
	for i := 0; i < 6; i++ {
		last = f.do(http.MethodPost, "/v1/auth/login", "", LoginRequest{
			Username: "walter",
			Password: fmt.Sprintf("Wrong%dpassword", i),
		})
	}

	require.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	require.NotEmpty(t, last.Header.Get("Retry-After"))
}

func TestExportImportEndpoints(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login("admin")
	writerToken := f.login("walter")

	// Put some content in first.
	resp := f.do(http.MethodPost, "/v1/articles", writerToken, ArticleRequest{
		Title: "Da esportare",
		Body:  "Testo.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("writers may not export", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/export", writerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("export and import round trip over HTTP", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/export", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		disposition := resp.Header.Get("Content-Disposition")
		require.Contains(t, disposition, "attachment")
		require.Regexp(t, `newsroom-export-\d{8}-\d{6}\.json`, disposition)

		var bundle map[string]any
		decode(t, resp, &bundle)
		require.EqualValues(t, 1, bundle["schema_version"])
		require.Len(t, bundle["users"], 3)
		require.Len(t, bundle["articles"], 1)

		// Importing the same bundle back is idempotent.
		imp := f.do(http.MethodPost, "/v1/import", adminToken, bundle)
		require.Equal(t, http.StatusNoContent, imp.StatusCode)

		list := f.do(http.MethodGet, "/v1/articles", adminToken, nil)
		require.Equal(t, http.StatusOK, list.StatusCode)
		var articles []ArticleResponse
		decode(t, list, &articles)
		require.Len(t, articles, 1)
	})

	t.Run("wrong schema version is rejected", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/import", adminToken, map[string]any{
			"schema_version": 99,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
