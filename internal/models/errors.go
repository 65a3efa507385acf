package models

import "fmt"

// DeserializationError reports a polymorphic field whose JSON shape matched
// none of the accepted variants.
type DeserializationError struct {
	Field string
	Value string
	Err   error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %s from %s: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot decode %s from %s", e.Field, e.Value)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
