package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth_Healthy(t *testing.T) {
	router := NewRouter(RouterConfig{Library: newMockLibrary(), Lookup: &mockResolver{}, Database: stubPinger{}, Version: "1.2.3"})

	w := get(router, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	router := NewRouter(RouterConfig{Library: newMockLibrary(), Lookup: &mockResolver{}, Database: stubPinger{err: errors.New("sql: database is closed")}})

	w := get(router, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestHealth_NoDatabase(t *testing.T) {
	w := get(newTestRouter(newMockLibrary(), &mockResolver{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}
