package api

import (
	"errors"
	"fmt"
)

// AuthError is returned by Login when the service rejects the credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Message
}

// ValidationError carries a 4xx message from the service, e.g. a
// registration conflict.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// ServerError is any other non-success status.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// NetworkError means the request could not complete.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SchemaError means a success response did not have the expected shape.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// UserMessage returns the text the service sent with a failure, or fallback
// when err carries none.
func UserMessage(err error, fallback string) string {
	var authErr *AuthError
	var validationErr *ValidationError
	var serverErr *ServerError
	switch {
	case errors.As(err, &authErr) && authErr.Message != "":
		return authErr.Message
	case errors.As(err, &validationErr) && validationErr.Message != "":
		return validationErr.Message
	case errors.As(err, &serverErr) && serverErr.Message != "":
		return serverErr.Message
	}
	return fallback
}
