package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		config := httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		}

		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler)

		for i := range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()

			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()

		limited.ServeHTTP(rec, req)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		config := httpx.RateLimitConfig{
			RequestsPerWindow: 2,
			Window:            time.Minute,
			Burst:             2,
		}

		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler)

		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()

			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		req1 := httptest.NewRequest(http.MethodGet, "/", nil)
		req1.RemoteAddr = "192.168.1.1:12345"
		rec1 := httptest.NewRecorder()
		limited.ServeHTTP(rec1, req1)
		require.Equal(t, http.StatusTooManyRequests, rec1.Code)

		req2 := httptest.NewRequest(http.MethodGet, "/", nil)
		req2.RemoteAddr = "192.168.1.2:12345"
		rec2 := httptest.NewRecorder()
		limited.ServeHTTP(rec2, req2)
		require.Equal(t, http.StatusOK, rec2.Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		config := httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}

		emptyExtractor := func(r *http.Request) string { return "" }
		limited := httpx.RateLimitMiddleware(config, emptyExtractor)(okHandler)

		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	profiles := map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
	}

	for name, config := range profiles {
		t.Run(name, func(t *testing.T) {
			require.Greater(t, config.RequestsPerWindow, 0)
			require.Greater(t, config.Window, time.Duration(0))
			require.Greater(t, config.Burst, 0)
		})
	}

	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		Burst:             10,
	}

	t.Run("NoEnvVarsUsesDefaults", func(t *testing.T) {
		config := httpx.ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, defaults, config)
	})

	t.Run("OverrideAllParameters", func(t *testing.T) {
		os.Setenv("RATELIMIT_TEST_REQUESTS", "200")
		os.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		os.Setenv("RATELIMIT_TEST_BURST", "250")
		defer func() {
			os.Unsetenv("RATELIMIT_TEST_REQUESTS")
			os.Unsetenv("RATELIMIT_TEST_WINDOW_SEC")
			os.Unsetenv("RATELIMIT_TEST_BURST")
		}()

		config := httpx.ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, 200, config.RequestsPerWindow)
		require.Equal(t, 30*time.Second, config.Window)
		require.Equal(t, 250, config.Burst)
	})

	t.Run("InvalidValuesUseDefaults", func(t *testing.T) {
		os.Setenv("RATELIMIT_TEST_REQUESTS", "invalid")
		os.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-10")
		os.Setenv("RATELIMIT_TEST_BURST", "0")
		defer func() {
			os.Unsetenv("RATELIMIT_TEST_REQUESTS")
			os.Unsetenv("RATELIMIT_TEST_WINDOW_SEC")
			os.Unsetenv("RATELIMIT_TEST_BURST")
		}()

		config := httpx.ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, defaults, config)
	})
}
