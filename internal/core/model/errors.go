package model

import (
	"fmt"
	"strings"
)

// InvalidInputError marks empty or malformed reconciliation input. The
// orchestrator turns it into a soft empty report rather than returning it.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// ExternalInterpretationError means the text-understanding capability was
// unreachable, timed out, or returned unusable data.
type ExternalInterpretationError struct {
	Cause error
}

func (e *ExternalInterpretationError) Error() string {
	if e.Cause == nil {
		return "external interpretation failed"
	}
	return "external interpretation failed: " + e.Cause.Error()
}

func (e *ExternalInterpretationError) Unwrap() error {
	return e.Cause
}

// SchemaViolationError is returned when the adapter produced a verdict that
// breaks the report invariants. The orchestrator always surfaces it wrapped in
// an ExternalInterpretationError so callers handle both the same way.
type SchemaViolationError struct {
	Violations []string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("verdict violates schema: %s", strings.Join(e.Violations, "; "))
}
