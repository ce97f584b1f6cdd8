package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/quick"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"issue-tracker-api/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func setupMetricsRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

// Any request outside the excluded endpoints must pass through the
// middleware without disturbing the handler's status code.
func TestMetricsMiddleware_StatusPassthrough(t *testing.T) {
	m := newTestMetrics()

	property := func(statusCode uint16) bool {
		if statusCode < 200 || statusCode >= 600 {
			return true
		}

		router := setupMetricsRouter(m)
		router.GET("/api/v1/test", func(c *gin.Context) {
			c.Status(int(statusCode))
		})

		req := httptest.NewRequest("GET", "/api/v1/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		return w.Code == int(statusCode)
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 100}); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

func TestMetricsMiddleware_DurationRecording(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)

	delay := 10 * time.Millisecond
	router.GET("/api/v1/slow", func(c *gin.Context) {
		time.Sleep(delay)
		c.Status(http.StatusOK)
	})

	start := time.Now()
	req := httptest.NewRequest("GET", "/api/v1/slow", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if time.Since(start) < delay {
		t.Errorf("Request completed before the handler delay elapsed")
	}
}

func TestMetricsMiddleware_Integration(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)

	router.GET("/api/v1/issues", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/api/v1/issues", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.GET("/api/v1/issues/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.DELETE("/api/v1/issues/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"GET issues", "GET", "/api/v1/issues", http.StatusOK},
		{"POST issue", "POST", "/api/v1/issues", http.StatusCreated},
		{"GET issue by ID", "GET", "/api/v1/issues/123", http.StatusOK},
		{"DELETE issue", "DELETE", "/api/v1/issues/456", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}

func TestMetricsMiddleware_ExcludedEndpoints(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)

	excludedPaths := []string{"/metrics", "/health", "/ready"}
	for _, path := range excludedPaths {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range excludedPaths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
		})
	}
}

func TestMetricsMiddleware_ErrorStatusCodes(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)

	router.GET("/api/v1/not-found", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.POST("/api/v1/bad-request", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	router.GET("/api/v1/server-error", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"404 Not Found", "GET", "/api/v1/not-found", http.StatusNotFound},
		{"400 Bad Request", "POST", "/api/v1/bad-request", http.StatusBadRequest},
		{"500 Server Error", "GET", "/api/v1/server-error", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}
