package jsonld

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField is matched by every *MissingRequiredFieldError via errors.Is
var ErrMissingRequiredField = errors.New("missing required field")

// MissingRequiredFieldError reports the dotted path of an absent required record field, e.g. "address.city"
type MissingRequiredFieldError struct {
	FieldPath string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.FieldPath)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
