// Package server provides the HTTP REST API for the resume studio.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/remote"
	"github.com/jonathan/resume-studio/internal/wizard"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrAccountNotVerified indicates the account has not confirmed its email
type ErrAccountNotVerified struct {
	Email string
}

func (e *ErrAccountNotVerified) Error() string {
	return fmt.Sprintf("account not verified: %s", e.Email)
}

// ErrInvalidOTP indicates a wrong or expired verification code
type ErrInvalidOTP struct{}

func (e *ErrInvalidOTP) Error() string {
	return "invalid or expired verification code"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrRegistrationClosed indicates self-registration is disabled
type ErrRegistrationClosed struct{}

func (e *ErrRegistrationClosed) Error() string {
	return "registration is currently closed"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrInvalidOTP:
		return http.StatusUnauthorized
	case *ErrAccountNotVerified, *ErrRegistrationClosed:
		return http.StatusForbidden
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, wizard.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrUnknownStep):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrRenameRequired):
		return http.StatusUnprocessableEntity
	}

	var stepErr *wizard.StepValidationError
	var incomplete *wizard.IncompleteDraftError
	if errors.As(err, &stepErr) || errors.As(err, &incomplete) {
		return http.StatusUnprocessableEntity
	}

	var statusErr *remote.StatusError
	var envelopeErr *remote.EnvelopeError
	if errors.As(err, &statusErr) || errors.As(err, &envelopeErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
