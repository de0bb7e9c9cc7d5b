package domain

import "errors"

var (
	// ErrModuleNotFound indicates the referenced module no longer exists.
	ErrModuleNotFound = errors.New("module not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option is not one of the
	// question's declared options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrUserNotFound indicates the referenced user record is gone.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound indicates the referenced forum post is gone.
	ErrPostNotFound = errors.New("post not found")
	// ErrAttemptNotFound is returned when a quiz attempt has not been started.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrAttemptFinished is returned for mutations on a finished attempt.
	ErrAttemptFinished = errors.New("quiz attempt already finished")

	// ErrInvalidCredentials covers failed sign-in.
	ErrInvalidCredentials = errors.New("invalid login details")
	// ErrEmailInUse is returned when registering an email that already
	// has a credential.
	ErrEmailInUse = errors.New("email address already in use")
	// ErrWrongPassword is returned by reauthentication.
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts is the client-side sign-in throttle tripping.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrNoSession is returned when no device session is stored.
	ErrNoSession = errors.New("no active session")

	// ErrForbidden is returned when the acting user's role does not
	// permit the operation.
	ErrForbidden = errors.New("forbidden")
)

// NotFound reports whether err is one of the not-found sentinels.
func NotFound(err error) bool {
	return errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// ValidationError carries one user-facing message per failed field. It
// is reported inline, never retried and never logged remotely.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return e.Messages[0]
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
