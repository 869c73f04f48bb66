package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/router"
)

func run(t *testing.T, resp handler.Response, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, resp(rec, req))
	return rec
}

type teapot struct{}

func (teapot) Error() string   { return "short and stout" }
func (teapot) StatusCode() int { return http.StatusTeapot }

func TestString(t *testing.T) {
	t.Parallel()

	rec := run(t, response.StringWithStatus("nope", http.StatusBadRequest), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "nope", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestJSONWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("encodes body", func(t *testing.T) {
		t.Parallel()
		rec := run(t, response.JSONWithStatus(map[string]int{"traffic_level": 2}, http.StatusCreated), nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"traffic_level":2}`, rec.Body.String())
	})

	t.Run("nil with zero status is no content", func(t *testing.T) {
		t.Parallel()
		rec := run(t, response.JSONWithStatus(nil, 0), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := run(t, response.RedirectSeeOther("/home"), req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("root").Parse(`{{define "greet"}}hi {{.}}{{end}}`))

	rec := run(t, response.Template(tmpl, "greet", "<b>ada</b>"), nil)
	assert.Equal(t, "hi &lt;b&gt;ada&lt;/b&gt;", rec.Body.String())

	t.Run("failure writes nothing", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		err := response.Template(tmpl, "missing", nil)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, err)
		assert.False(t, rec.Flushed)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("nil template", func(t *testing.T) {
		t.Parallel()
		err := response.Template(nil, "", nil)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, response.ErrNilTemplate)
	})
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error passes through", response.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped http error", fmt.Errorf("wrap: %w", response.ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
		{"status coder", teapot{}, http.StatusTeapot, "error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := response.AsHTTPError(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}
}

func TestNegotiatingErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("api path gets json", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		ctx := router.NewContext(rec, httptest.NewRequest(http.MethodPost, "/api/search", nil), nil)
		response.NegotiatingErrorHandler(ctx, response.ErrBadRequest.WithMessage("origin is required"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "origin is required", body["message"])
		assert.Equal(t, "bad_request", body["code"])
	})

	t.Run("page gets text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		ctx := router.NewContext(rec, httptest.NewRequest(http.MethodGet, "/history", nil), nil)
		response.NegotiatingErrorHandler(ctx, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), rec.Body.String())
	})
}
