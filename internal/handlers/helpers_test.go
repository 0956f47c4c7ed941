package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-feedback/internal/middlewares"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

func newRenderer(t *testing.T) *views.Renderer {
	t.Helper()
	rnd, err := views.New()
	require.NoError(t, err)
	return rnd
}

// newRequest builds a request as the router would hand it to a handler:
// URL params resolved and, when username is set, a session user in context.
func newRequest(method, target string, form url.Values, params map[string]string, username string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if username != "" {
		ctx = middlewares.ContextWithUsername(ctx, username)
	}
	return req.WithContext(ctx)
}
