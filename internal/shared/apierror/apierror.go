package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the symbolic error code carried in every error envelope.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindAuthentication   Kind = "AUTHENTICATION_ERROR"
	KindAuthorization    Kind = "AUTHORIZATION_ERROR"
	KindNotFound         Kind = "RESOURCE_NOT_FOUND"
	KindMethodNotAllowed Kind = "METHOD_NOT_ALLOWED"
	KindTooManyRequests  Kind = "TOO_MANY_REQUESTS"
	KindFileUpload       Kind = "FILE_UPLOAD_ERROR"
	KindDatabase         Kind = "DATABASE_ERROR"
	KindBusiness         Kind = "BUSINESS_ERROR"
)

// HTTPStatus returns the fixed status for a kind. VALIDATION_ERROR defaults
// to 422 for body-level failures; shape-level failures (unparseable JSON)
// override to 400 via BadRequest.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindFileUpload, KindBusiness:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// E is a categorised error. Every failure path in the core resolves to one
// of these before it leaves a handler.
type E struct {
	Kind    Kind
	Message string
	Field   string // optional offending field path for validation errors
	Status  int    // optional override; zero means Kind.HTTPStatus()
	Err     error  // wrapped cause, never serialised
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func (e *E) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.HTTPStatus()
}

// Constructors

func Validation(message, field string) *E {
	return &E{Kind: KindValidation, Message: message, Field: field}
}

// BadRequest is a shape-level validation failure: the body could not be
// decoded at all, so no field can be named.
func BadRequest(message string) *E {
	return &E{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

func Authentication(message string) *E {
	if message == "" {
		message = "authentication failed"
	}
	return &E{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *E {
	if message == "" {
		message = "insufficient permissions"
	}
	return &E{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) *E {
	if message == "" {
		message = "resource not found"
	}
	return &E{Kind: KindNotFound, Message: message}
}

func MethodNotAllowed(message string) *E {
	if message == "" {
		message = "method not allowed"
	}
	return &E{Kind: KindMethodNotAllowed, Message: message}
}

func TooManyRequests(message string) *E {
	return &E{Kind: KindTooManyRequests, Message: message}
}

func FileUpload(message string) *E {
	return &E{Kind: KindFileUpload, Message: message}
}

func Database(message string, err error) *E {
	if message == "" {
		message = "database operation failed"
	}
	return &E{Kind: KindDatabase, Message: message, Err: err}
}

func Business(message string) *E {
	return &E{Kind: KindBusiness, Message: message}
}

// From resolves any error to an *E. Uncategorised errors become
// DATABASE_ERROR per the taxonomy: the store is the only collaborator whose
// faults are allowed to surface unclassified.
func From(err error) *E {
	var e *E
	if errors.As(err, &e) {
		return e
	}
	return Database("", err)
}
