package services

import (
	"errors"
	"fmt"
)

// Sentinel errors of the service layer. Handlers map them to HTTP statuses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrDuplicateEmail    = errors.New("email already registered")

	ErrDuplicateEnrollment = errors.New("student already enrolled with this teacher")
	ErrNotEnrolled         = errors.New("student is not enrolled with the quiz owner")

	ErrQuizInactive       = errors.New("quiz is not active")
	ErrAlreadyAttempted   = errors.New("quiz already attempted")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique quiz code")

	ErrSelfDeletion = errors.New("cannot remove own account")
	ErrInvalidRole  = errors.New("invalid role")
)

// PermissionError reports an action the caller's role does not allow.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for %s: %s", e.Action, e.Reason)
}

func NewPermissionError(action, reason string) *PermissionError {
	return &PermissionError{Action: action, Reason: reason}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
