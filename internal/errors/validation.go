package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "invalid input"
	case 1:
		return fmt.Sprintf("invalid input: %s %s", ve[0].Field, ve[0].Message)
	default:
		return fmt.Sprintf("invalid input: %d fields rejected", len(ve))
	}
}

func (pe *ValidationError) Error() string {
	return pe.Field + " " + pe.Message
}

func NewValidationError(field, message string, value any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ToValidationErrors converts validator errors. Any other error comes back as
// a single entry without a field.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		if err != nil {
			out = append(out, ValidationError{Message: err.Error()})
		}
		return out
	}

	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + err.Param()
	case "max":
		return "must be at most " + err.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(err.Param(), " ", ", ")
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", err.Param())

	case "stake_level":
		return "must be low, medium, or high"
	case "flexibility":
		return "must be fixed, low, medium, or high"
	case "time_unit":
		return "must be minutes, hours, days, or weeks"
	case "assessment_type":
		return "must be a valid assessment type (quiz, test, exam, project, presentation, essay, lab_report, final_exam)"

	default:
		return "fails the " + err.Tag() + " check"
	}
}
