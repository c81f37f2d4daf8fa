package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// Unauthorized returns a 401 error for a missing or invalid API key.
func Unauthorized() error {
	return &Error{
		http.StatusUnauthorized,
		"Invalid or missing API key.",
		"unauthorized",
	}
}

// AlreadySyncing is returned when a sync run is requested while another one is
// still in flight. The caller should retry once the current run finishes.
func AlreadySyncing() error {
	return &Error{
		http.StatusConflict,
		"A sync run is already in progress.",
		"already_syncing",
	}
}

// UnsupportedPath is returned by the path classifier for content paths that
// don't map to any known category.
func UnsupportedPath(path string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unsupported content path %q", path),
		"unsupported_path",
	}
}

// EntityNotFound indicates an entity id could not be resolved after an upsert.
// This is fatal for the unit being imported.
func EntityNotFound(entity string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("%s entity missing after upsert", entity),
		"entity_not_found",
	}
}

// ParentNotFound indicates a unit references a parent entity that doesn't
// exist in the store, e.g. a quiz question whose course was never imported.
func ParentNotFound(parent, id string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("%s %q not found", parent, id),
		"parent_not_found",
	}
}

// MissingRepository is returned when the sync is triggered without a content
// repository configured. This aborts the run before any import begins.
func MissingRepository() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"No content repository configured.",
		"missing_repository",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}
