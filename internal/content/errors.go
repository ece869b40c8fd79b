package content

import (
	"context"
	"errors"
	"fmt"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
	"portfolio-site/internal/policy"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = policy.ErrDenied
	ErrNotFound               = errors.New("record not found")
	ErrBackend                = errors.New("backend request failed")
	ErrNotConfirmed           = errors.New("deletion was not confirmed")

	// Login failures.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownUser        = errors.New("no account found with this email")
)

// ValidationError lists required fields that were left empty.
type ValidationError = models.ValidationError

// classify maps backend failures onto the content error taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, baas.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, baas.ErrUnauthorized):
		return fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	case errors.Is(err, baas.ErrForbidden):
		return fmt.Errorf("%s: %w", op, &policy.DeniedError{Reason: "you do not have permission to do this"})
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}
}

// UserMessage renders err for an inline banner.
func UserMessage(err error) string {
	var (
		validation *ValidationError
		denied     *policy.DeniedError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return "Please fill in all required fields"
	case errors.As(err, &denied):
		return "Permission denied: " + denied.Reason
	case errors.Is(err, ErrAuthenticationRequired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrNotFound):
		return "The record no longer exists."
	case errors.Is(err, ErrNotConfirmed):
		return "Deletion cancelled."
	default:
		return "Something went wrong. Please try again."
	}
}

// LoginMessage renders a login failure so that wrong credentials, unknown
// accounts and generic failures read differently.
func LoginMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrUnknownUser):
		return "No account found with this email"
	default:
		return "Login failed. Please try again."
	}
}
