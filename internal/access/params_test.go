package access

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestParamsPathBeforeQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/employees/e1?id=e2", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "e1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	v, ok := RequestParams(req).Param("id")
	require.True(t, ok)
	assert.Equal(t, "e1", v)
}

func TestRequestParamsQueryFallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/timesheets?employee_id=e1", nil)

	v, ok := RequestParams(req).Param("employee_id")
	require.True(t, ok)
	assert.Equal(t, "e1", v)
}

func TestRequestParamsBodyField(t *testing.T) {
	body := `{"employee_id":"e1","hours":7.5}`
	req := httptest.NewRequest("POST", "/timesheets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	params := RequestParams(req)

	v, ok := params.Param("employee_id")
	require.True(t, ok)
	assert.Equal(t, "e1", v)

	v, ok = params.Param("hours")
	require.True(t, ok)
	assert.Equal(t, "7.5", v)

	_, ok = params.Param("missing")
	assert.False(t, ok)

	// The body must still be readable by the handler afterwards.
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(data))
}

func TestRequestParamsNonJSONBodyIgnored(t *testing.T) {
	req := httptest.NewRequest("POST", "/timesheets", strings.NewReader("employee_id=e1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, ok := RequestParams(req).Param("employee_id")
	assert.False(t, ok)
}

func TestMapParams(t *testing.T) {
	p := MapParams{"id": "u1"}

	v, ok := p.Param("id")
	require.True(t, ok)
	assert.Equal(t, "u1", v)

	_, ok = p.Param("other")
	assert.False(t, ok)
}
