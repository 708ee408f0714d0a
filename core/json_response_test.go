package core_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotagate/quotagate/core"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("renders payload with 200", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		err := core.JSON(map[string]string{"hello": "world"}).Render(w, r)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{"hello": "world"}, body.Data)
		assert.Nil(t, body.Error)
	})

	t.Run("message envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		err := core.JSONMessage("Plan created successfully", map[string]string{"plan_id": "abc"}).Render(w, r)
		require.NoError(t, err)

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Plan created successfully", body.Message)
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("http error keeps code and key", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		err := core.JSONError(core.NewHTTPError(http.StatusForbidden, "quota_exceeded")).Render(w, r)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "quota_exceeded", body.Error.Code)
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		err := core.JSONError(assert.AnError).Render(w, r)
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
