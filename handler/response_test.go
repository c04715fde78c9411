package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

func dataStarRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(handler.DataStarRequestHeader, "true")
	req.Header.Set("Accept", "text/event-stream")
	return req
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	assert.False(t, handler.IsDataStar(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.True(t, handler.IsDataStar(dataStarRequest(http.MethodPost, "/sign-in")))
	assert.True(t, handler.IsDataStar(httptest.NewRequest(http.MethodGet, "/?datastar=%7B%7D", nil)))
}

func TestTemplPartial(t *testing.T) {
	t.Parallel()

	resp := handler.TemplPartial(text(`<form id="sign-in-form">partial</form>`), text("<html>full</html>"),
		handler.WithTarget("#sign-in-form"))

	t.Run("plain request renders full page", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodPost, "/sign-in", nil)))
		assert.Equal(t, "<html>full</html>", w.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("datastar request gets a patch", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, resp.Render(w, dataStarRequest(http.MethodPost, "/sign-in")))
		body := w.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#sign-in-form")
		assert.Contains(t, body, "partial")
		assert.NotContains(t, body, "full")
	})
}

func TestTemplStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	require.NoError(t, handler.TemplStatus(http.StatusUnprocessableEntity, text("bad")).
		Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/dashboard").Render(w, httptest.NewRequest(http.MethodPost, "/sign-in", nil)))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("datastar", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/dashboard").Render(w, dataStarRequest(http.MethodPost, "/sign-in")))
		assert.Contains(t, w.Body.String(), "/dashboard")
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("custom code", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.RedirectWithCode("/sign-in", http.StatusFound).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusFound, w.Code)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	require.NoError(t, handler.JSON(map[string]bool{"status": true}).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"status":true}}`, w.Body.String())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.Apply(validator.RequiredString("email", "")), http.StatusUnprocessableEntity, "validation_error"},
		{"http error", handler.ErrTooManyRequests, http.StatusTooManyRequests, "too_many_requests"},
		{"internal", errors.New("db is down"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))
			assert.Equal(t, tt.status, w.Code)

			var body handler.JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, w.Body.String(), "db is down")
		})
	}
}
