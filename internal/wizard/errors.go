package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/validation"
)

var (
	// ErrNoSession is returned when a wizard operation runs without an
	// active draft session for the user.
	ErrNoSession = errors.New("no active draft session")

	// ErrRenameRequired blocks advancing past the first step until the
	// output PDF has been named.
	ErrRenameRequired = errors.New("resume must be renamed before continuing")

	// ErrUnknownStep is returned for a step key outside the wizard order.
	ErrUnknownStep = errors.New("unknown wizard step")
)

// StepValidationError reports the field-level problems that block a step
// from advancing.
type StepValidationError struct {
	Step   string
	Fields validation.FieldErrors
}

func (e *StepValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	return fmt.Sprintf("step %q has invalid fields: %s", e.Step, strings.Join(fields, ", "))
}

// IncompleteDraftError is returned by Generate when one or more steps are
// still incomplete.
type IncompleteDraftError struct {
	Steps []string
}

func (e *IncompleteDraftError) Error() string {
	return fmt.Sprintf("draft is incomplete: %s", strings.Join(e.Steps, ", "))
}
