package generator

import (
	"strings"
)

// ValidationError is a problem with one input field. Generation does not
// start while any of these exist.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Field returns the first error recorded for field, or nil.
func (errs ValidationErrors) Field(field string) *ValidationError {
	for _, e := range errs {
		if e.Field == field {
			return e
		}
	}
	return nil
}
