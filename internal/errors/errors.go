// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidID        = errors.New("Missing or invalid customer ID")
	ErrForbidden        = errors.New("Forbidden")
	ErrEmailExists      = errors.New("Email already exists")
	ErrInvalidBody      = errors.New("Invalid request body")
	ErrMethodNotAllowed = errors.New("Method not allowed")
)

// ErrCustomerNotFound is returned when no row matches the requested id.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

// Helper constructor
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// IsNotFound reports whether err is, or wraps, a missing customer.
func IsNotFound(err error) bool {
	var nf *ErrCustomerNotFound
	return errors.As(err, &nf)
}

// ValidationError lists request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// StatusCode maps an error to the HTTP status reported to the client.
func StatusCode(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidBody), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmailExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
