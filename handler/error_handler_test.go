package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

func newErrorHandler() handler.ErrorHandler[handler.Context] {
	return handler.NewErrorHandler(logger.Discard(), handler.ErrorHandlerConfig{
		ErrorPage: func(p handler.ErrorPageParams) templ.Component {
			return text("page:" + p.Error)
		},
		ErrorToast: func(p handler.ErrorToastParams) templ.Component {
			return text(`<div class="toast">` + p.Type + ":" + p.Message + `</div>`)
		},
	})
}

func TestErrorHandler_Page(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"generic", errors.New("boom"), http.StatusInternalServerError, "page:internal_server_error"},
		{"http error", handler.ErrNotFound, http.StatusNotFound, "page:not_found"},
		{"wrapped http error", errors.Join(errors.New("ctx"), handler.ErrForbidden), http.StatusForbidden, "page:forbidden"},
		{"validation", validator.Apply(validator.RequiredString("email", "")), http.StatusUnprocessableEntity, "page:unprocessable_entity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			ctx := handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			newErrorHandler()(ctx, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestErrorHandler_DataStarToast(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ctx := handler.NewContext(w, dataStarRequest(http.MethodPost, "/sign-in"))
	newErrorHandler()(ctx, handler.ErrTooManyRequests)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "#toast-container")
	assert.Contains(t, body, "warning:too_many_requests")
}

func TestErrorHandler_NoPageComponent(t *testing.T) {
	t.Parallel()

	eh := handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{})
	w := httptest.NewRecorder()
	eh(handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)), handler.ErrUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}
