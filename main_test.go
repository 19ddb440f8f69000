package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/metrics"
)

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	state := &runState{}
	router := newRouter(state)

	get := func() map[string]any {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	assert.Equal(t, map[string]any{"status": "ok"}, get())

	state.set(errors.New("stage covers: 1 of 2 items failed"))
	body := get()
	assert.Equal(t, "degraded", body["status"])
	assert.Contains(t, body["last_error"], "stage covers")
	assert.NotEmpty(t, body["last_run"])

	state.set(nil)
	assert.Equal(t, "ok", get()["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.Published.Add(0)

	w := httptest.NewRecorder()
	newRouter(&runState{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "docsync_published_total")
}
