package apierror

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Envelope is the universal error body shape.
type Envelope struct {
	Error Body `json:"error"`
}

type Body struct {
	Code      Kind   `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ErrorID   string `json:"error_id"`
	Field     string `json:"field,omitempty"`
}

// NewEnvelope builds the envelope for an error, minting a fresh error_id.
// Two otherwise-identical errors always carry distinct ids.
func NewEnvelope(e *E) Envelope {
	return Envelope{
		Error: Body{
			Code:      e.Kind,
			Message:   e.Message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			ErrorID:   uuid.NewString(),
			Field:     e.Field,
		},
	}
}

// Write resolves err, emits the envelope, aborts the request, and logs the
// failure keyed by request id.
func Write(c *gin.Context, err error) {
	e := From(err)
	env := NewEnvelope(e)

	log.Error().
		Str("request_id", c.GetString("request_id")).
		Str("error_id", env.Error.ErrorID).
		Str("code", string(e.Kind)).
		Str("path", c.Request.URL.Path).
		Err(err).
		Msg("Request failed")

	c.AbortWithStatusJSON(e.HTTPStatus(), env)
}
