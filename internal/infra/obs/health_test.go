package obs

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performReadyz(t *testing.T, h HealthHandlers) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", h.Readyz)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestReadyz(t *testing.T) {
	t.Run("reports the storage mode when ready", func(t *testing.T) {
		rec := performReadyz(t, HealthHandlers{Storage: "memory"})
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, "memory", body["storage"])
	})

	t.Run("keeps the storage mode in the failure payload", func(t *testing.T) {
		rec := performReadyz(t, HealthHandlers{
			Ready:   func() error { return errors.New("mongo ping failed") },
			Storage: "mongo",
		})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "mongo", body["storage"])
		assert.Contains(t, body["error"], "mongo ping failed")
	})
}
