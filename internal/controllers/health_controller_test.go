package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abd/internal/models"
)

func TestHealth(t *testing.T) {
	now, err := models.DayKey("2026-08-25").Date()
	require.NoError(t, err)
	controller := NewHealthController(&stubLedger{doc: testLedgerDoc(t), now: now})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	controller.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Status string         `json:"status"`
		Uptime string         `json:"uptime"`
		Users  int            `json:"users"`
		Week   models.WeekKey `json:"week"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Uptime)
	assert.Equal(t, 1, resp.Users)
	assert.Equal(t, models.WeekKey("2026-W35"), resp.Week)
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	controller := NewHealthController(&stubLedger{doc: models.NewDocument()})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	controller.Health(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m5s", formatDuration(5*time.Second))
	assert.Equal(t, "1h1m1s", formatDuration(time.Hour+time.Minute+time.Second))
	assert.Equal(t, "25h0m0s", formatDuration(25*time.Hour))
}
