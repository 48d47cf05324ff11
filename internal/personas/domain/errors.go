package domain

import (
	"errors"
	"fmt"

	projectdomain "github.com/persona-lab/persona-backend/internal/projects/domain"
)

// MinBasePersonas is how many manual personas a project needs before the AI
// generator will run.
const MinBasePersonas = 2

var (
	// ErrProjectNotFound is shared with the projects package so callers can
	// match either with errors.Is.
	ErrProjectNotFound = projectdomain.ErrProjectNotFound
	ErrPersonaNotFound = errors.New("persona not found")
)

// ValidationError reports a precondition the caller can fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNotEnoughBasePersonas builds the error returned when generation is
// requested for a project with fewer than MinBasePersonas base personas.
func ErrNotEnoughBasePersonas(have int) error {
	return &ValidationError{
		Message: fmt.Sprintf(
			"Please create at least %d base personas before generating AI personas (found %d). This helps ensure the generated personas are relevant to your project.",
			MinBasePersonas, have,
		),
	}
}
