package frame

import (
	"errors"
	"fmt"

	"github.com/c360studio/semframe/owl"
)

// UnknownFrameError reports a tag outside the schema of the entity's kind.
type UnknownFrameError struct {
	Tag  Tag
	Kind owl.Kind
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("unknown frame %q for %s", e.Tag, e.Kind)
}

// UnknownCharacteristicError reports a characteristic keyword outside
// {transitive, functional, inversefunctional}.
type UnknownCharacteristicError struct {
	Value any
}

func (e *UnknownCharacteristicError) Error() string {
	return fmt.Sprintf("unknown property characteristic: %v", e.Value)
}

// InvalidValueError reports a frame value of the wrong shape, such as a
// string where a fact is expected.
type InvalidValueError struct {
	Tag   Tag
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for frame %q: %v (%T)", e.Tag, e.Value, e.Value)
}

// IsUnknownFrame reports whether err is or wraps an UnknownFrameError.
func IsUnknownFrame(err error) bool {
	var target *UnknownFrameError
	return errors.As(err, &target)
}

// IsUnknownCharacteristic reports whether err is or wraps an
// UnknownCharacteristicError.
func IsUnknownCharacteristic(err error) bool {
	var target *UnknownCharacteristicError
	return errors.As(err, &target)
}
