package frame

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSignatureInvalid means the envelope is malformed, the signature does
	// not verify, or the signing key is not an active app key for the fid.
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrUnknownEvent is wrapped by a PayloadSchemaError for an event name
	// outside the four known events.
	ErrUnknownEvent = errors.New("unknown event")
)

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// PayloadSchemaError lists everything wrong with a webhook body or payload.
type PayloadSchemaError struct {
	Issues []Issue
	err    error
}

func (e *PayloadSchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return fmt.Sprintf("invalid payload: %s", strings.Join(parts, "; "))
}

func (e *PayloadSchemaError) Unwrap() error {
	return e.err
}

func schemaError(path, message string) *PayloadSchemaError {
	return &PayloadSchemaError{Issues: []Issue{{Path: path, Message: message}}}
}
