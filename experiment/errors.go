// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the experiment does not exist, or is not active
	// when an operation requires it to be.
	ErrNotFound = errors.New("experiment not found")

	// ErrNotAssigned means a conversion was recorded for a caller that
	// was never bucketed into the experiment.
	ErrNotAssigned = errors.New("user not assigned to experiment")
)

// ValidationError reports a malformed experiment definition or an invalid
// lifecycle transition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
