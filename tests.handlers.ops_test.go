package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetchStatistics calls the stats handler and decodes its json body.
func fetchStatistics(t *testing.T, api *APIHandler) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	api.GetStatistics(w, httptest.NewRequest(http.MethodGet, "/ops/stats", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// TestGetStatisticsHandler ensures the stats endpoint reports the exact
// number of public requests received, starting at zero on a fresh server.
func TestGetStatisticsHandler(t *testing.T) {
	api := newTestAPIHandler(nil)

	t.Run("fresh server", func(t *testing.T) {
		m := fetchStatistics(t, api)
		assert.Equal(t, float64(0), m["called"])
	})

	t.Run("after public traffic", func(t *testing.T) {
		counted := api.RequestsCounterMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {})
		for i := 0; i < 3; i++ {
			counted(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/books", nil), nil)
		}
		m := fetchStatistics(t, api)
		assert.Equal(t, float64(3), m["called"])

		// a stats call itself never bumps the counter.
		m = fetchStatistics(t, api)
		assert.Equal(t, float64(3), m["called"])
	})
}

// TestMaintenanceHandler ensures the ops endpoint toggles the maintenance
// mode seen by the public middleware.
func TestMaintenanceHandler(t *testing.T) {
	api := newTestAPIHandler(nil)
	var reached bool
	gated := api.MaintenanceMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		reached = true
	})

	t.Run("enable", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=enable&msg=db+upgrade", nil), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Maintenance mode enabled successfully.")

		reached = false
		pw := httptest.NewRecorder()
		gated(pw, httptest.NewRequest(http.MethodGet, "/v1/books", nil), nil)
		assert.Equal(t, false, reached)
		assert.Equal(t, http.StatusServiceUnavailable, pw.Code)
		assert.Contains(t, pw.Body.String(), "db upgrade")
	})

	t.Run("disable", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=disable", nil), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Maintenance mode disabled successfully.")

		reached = false
		pw := httptest.NewRecorder()
		gated(pw, httptest.NewRequest(http.MethodGet, "/v1/books", nil), nil)
		assert.Equal(t, true, reached)
	})

	t.Run("concurrent toggles and public reads", func(t *testing.T) {
		passthrough := api.MaintenanceMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {})
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					w := httptest.NewRecorder()
					api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=enable&msg=rolling", nil), nil)
					w = httptest.NewRecorder()
					api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=disable", nil), nil)
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					w := httptest.NewRecorder()
					passthrough(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil), nil)
					w = httptest.NewRecorder()
					api.GetStatistics(w, httptest.NewRequest(http.MethodGet, "/ops/stats", nil), nil)
				}
			}()
		}
		wg.Wait()
		api.mode.enabled.Store(false)
	})
}
