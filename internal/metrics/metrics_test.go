package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := New()
	require.NoError(t, err)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/notes/:id", func(c *gin.Context) { c.String(http.StatusNotFound, "Book not found") })
	router.GET("/metrics", gin.WrapH(m.Handler()))
	return router, m
}

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	router, m := setupRouter(t)

	for _, path := range []string{"/notes/1", "/notes/2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/notes/:id", "404")))
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	router, m := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordLookup(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordLookup("hit")
	m.RecordLookup("hit")
	m.RecordLookup("not_found")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.BookLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BookLookups.WithLabelValues("not_found")))
}

func TestHandler_Exposition(t *testing.T) {
	router, m := setupRouter(t)
	m.RecordLookup("miss")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `booknotes_book_lookup_total{result="miss"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
