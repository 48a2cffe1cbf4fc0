package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/middleware"
	"github.com/reoring/tjv/value"
)

func handler(t *testing.T) http.Handler {
	t.Helper()
	s, err := tjv.Compile([]any{"-type", "object", "-properties",
		"{name -type string -required} {qty -type integer -minimum 1 -outkey {order qty}}"})
	require.NoError(t, err)
	return middleware.Validate(s, middleware.WithMaxBody(64))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out, ok := middleware.OutcomeFromContext(r.Context())
		require.True(t, ok)
		body, _ := io.ReadAll(r.Body)
		b, _ := json.Marshal(out.(*value.Dict))
		_, _ = w.Write([]byte(string(b) + "|" + string(body)))
	}))
}

func TestValidate(t *testing.T) {
	h := handler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"name":"a","qty":2}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"order":{"qty":2}}|{"name":"a","qty":2}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"qty":0}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"message": "Error while validating data: .name should have required property 'name', qty value is less than the minimum 1",
		"errors": [
			{"keyword": "required", "dataPath": ".name", "message": "should have required property 'name'"},
			{"keyword": "value", "dataPath": "qty", "message": "value is less than the minimum 1"}
		]
	}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"name":"`+strings.Repeat("x", 80)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestOutcomeFromContextMissing(t *testing.T) {
	_, ok := middleware.OutcomeFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
