package suggest

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// TransientError is a failure that may not happen again, like a timeout or a 503.
// Nothing retries automatically; the user can ask again.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError is a failure that asking again won't fix, like a bad API key
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

func NewFatalError(err error) error {
	return &FatalError{err: err}
}

func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// maxErrorBody is how many bytes of a failed response end up in the error message
const maxErrorBody = 200

// classifyHTTPError turns a non-200 response into a transient or fatal error
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(bodyStr[cut]) {
			cut--
		}
		bodyStr = bodyStr[:cut] + "..."
	}

	err := fmt.Errorf("model API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests,
		statusCode == http.StatusRequestTimeout,
		statusCode >= 500:
		return NewTransientError(err)
	default:
		return NewFatalError(err)
	}
}
