package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindGeneric Kind = iota
	KindNotFound
	KindRateLimited
	KindConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindConnectivity:
		return "connectivity"
	default:
		return "generic"
	}
}

// Messages shown to the user for the classified kinds.
const (
	MessageRateLimited  = "daily request limit reached"
	MessageNotFound     = "resource not found"
	MessageConnectivity = "connectivity error"
)

// Error is returned by every Client operation that fails. StatusCode is
// zero when no response was received.
type Error struct {
	StatusCode int
	Kind       Kind
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindGeneric.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindGeneric
}

// IsNotFound reports whether err is a not-found response.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsRateLimited reports whether err is a rate-limit response.
func IsRateLimited(err error) bool { return err != nil && KindOf(err) == KindRateLimited }

// Message maps err to the text shown in notifications and error panels.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case KindRateLimited:
		return MessageRateLimited
	case KindNotFound:
		return MessageNotFound
	case KindConnectivity:
		return MessageConnectivity
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusMethodNotAllowed, http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindGeneric
	}
}
