package scraper

import (
	"errors"
	"fmt"
)

// ErrTableNotFound is returned when the selector matches no element in the page.
var ErrTableNotFound = errors.New("courses table not found")

// TransportError wraps network, read and parse failures.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError reports a non-2xx response from the schedule host.
type RemoteError struct {
	URL        string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}
