package stylist

import (
	"fmt"
	"strings"
)

// NotFoundError reports that a referenced user or profile does not exist.
// The HTTP layer maps it to a 404.
type NotFoundError struct {
	Resource string
	UserID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found for user %d", e.Resource, e.UserID)
}

// ValidationError reports a request that can never succeed: required profile
// fields are missing, or no wardrobe items are available. It is detected
// before any engine call is attempted. The HTTP layer maps it to a 400.
type ValidationError struct {
	// MissingFields lists every missing required profile field, in the
	// required-field order, so the caller can report all problems at once.
	MissingFields []string
	Message       string
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return "missing required profile fields: " + strings.Join(e.MissingFields, ", ")
	}
	return e.Message
}

// EngineError reports a failed engine invocation: transport failure, empty
// or non-schema-conforming response, contract violation, or timeout. The
// core applies no retry; the HTTP layer maps it to a 503.
type EngineError struct {
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
