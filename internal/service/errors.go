package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are
	// incorrect. Deliberately the same for unknown email, wrong password and
	// deactivated accounts so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering with a username or
	// email that is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the authenticated caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError marks user-correctable input problems so the HTTP layer can
// map them to a 400 without string matching.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
