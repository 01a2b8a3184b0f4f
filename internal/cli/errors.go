package cli

import (
	"github.com/five82/shelf/internal/api"
)

// requestError is an API failure reported with the operation that hit it.
// The text uses the same wording the TUI shows.
type requestError struct {
	op  string
	err error
}

func (e *requestError) Error() string {
	return e.op + ": " + api.Message(e.err)
}

func (e *requestError) Unwrap() error { return e.err }

func wrapRequest(op string, err error) error {
	if err == nil {
		return nil
	}
	return &requestError{op: op, err: err}
}
