package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusMapping(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindFileUpload, http.StatusBadRequest},
		{KindBusiness, http.StatusBadRequest},
		{KindDatabase, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus(), string(tt.kind))
	}
}

func TestBadRequestOverridesStatus(t *testing.T) {
	e := BadRequest("unparseable body")
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus())
}

func TestFromResolvesWrappedErrors(t *testing.T) {
	inner := NotFound("thing not found")
	wrapped := errors.Join(errors.New("context"), inner)
	assert.Equal(t, KindNotFound, From(wrapped).Kind)

	plain := errors.New("connection refused")
	e := From(plain)
	assert.Equal(t, KindDatabase, e.Kind)
	assert.True(t, errors.Is(e, plain))
}

func TestEnvelopeShape(t *testing.T) {
	env := NewEnvelope(Validation("title is required", "title"))

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	body, ok := decoded["error"]
	require.True(t, ok, "envelope must nest under \"error\"")
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "title is required", body["message"])
	assert.Equal(t, "title", body["field"])
	assert.NotEmpty(t, body["error_id"])

	ts, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestEnvelopeOmitsEmptyField(t *testing.T) {
	env := NewEnvelope(Authentication(""))
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"field"`)
}

func TestErrorIDsAreDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		env := NewEnvelope(NotFound("x"))
		_, dup := seen[env.Error.ErrorID]
		require.False(t, dup, "error_id must be unique per instance")
		seen[env.Error.ErrorID] = struct{}{}
	}
}

func TestWriteEmitsEnvelopeAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/portfolio/99", nil)

	Write(c, NotFound("portfolio item not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, KindNotFound, env.Error.Code)
	assert.NotEmpty(t, env.Error.ErrorID)
}
