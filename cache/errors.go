package cache

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// Error kinds, matched through errors.Is. Wrapping errors match their own
// kind and that of their cause: a *ConventionError whose convention returned
// a *TypeError matches both ErrConventionFailure and the TypeError kind.
var (
	ErrNullArgument           = errors.New("null argument")
	ErrInvalidDuration        = errors.New("invalid duration")
	ErrInvalidExpiration      = errors.New("invalid expiration")
	ErrTypeNotMapped          = errors.New("type not mapped")
	ErrTypeNotFitInConvention = errors.New("type does not fit in the convention")
	ErrConventionFailure      = errors.New("convention failure")
	ErrKeyExtractorMalformed  = errors.New("key extractor malformed")
	ErrPropertyNotFound       = accessor.ErrPropertyNotFound
)

// ArgumentError reports a missing required argument.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return "argument " + e.Name + " cannot be nil"
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrNullArgument
}

// NullArgument builds the error returned for a nil required argument.
func NullArgument(name string) error {
	return &ArgumentError{Name: name}
}

// TypeError reports a type the configuration cannot key.
// Kind is ErrTypeNotMapped or ErrTypeNotFitInConvention.
type TypeError struct {
	Kind error
	Type reflect.Type
}

func (e *TypeError) Error() string {
	if e.Kind == ErrTypeNotMapped {
		return fmt.Sprintf("type %s is not configured", TypeName(e.Type))
	}
	return fmt.Sprintf("type %s is not configured and does not fit in the convention", TypeName(e.Type))
}

func (e *TypeError) Is(target error) bool {
	return target == e.Kind
}

// ConventionOp names the convention operation that failed.
type ConventionOp string

const (
	OpFitInConvention    ConventionOp = "FitInConvention"
	OpCreateKeyExtractor ConventionOp = "CreateKeyExtractor"
)

// ConventionError wraps any error or panic raised by a Convention.
type ConventionError struct {
	Op   ConventionOp
	Type reflect.Type
	Err  error
}

func (e *ConventionError) Error() string {
	return fmt.Sprintf("an error was raised calling the %s method of the convention for type %s: %v",
		e.Op, TypeName(e.Type), e.Err)
}

func (e *ConventionError) Unwrap() error { return e.Err }

func (e *ConventionError) Is(target error) bool {
	return target == ErrConventionFailure
}

// KeyExtractorError wraps a failure raised while evaluating a key extractor
// against a specific value.
type KeyExtractorError struct {
	Type reflect.Type
	Err  error
}

func (e *KeyExtractorError) Error() string {
	return fmt.Sprintf("key extractor malformed for type %s: %v", TypeName(e.Type), e.Err)
}

func (e *KeyExtractorError) Unwrap() error { return e.Err }

func (e *KeyExtractorError) Is(target error) bool {
	return target == ErrKeyExtractorMalformed
}

// PanicError carries a value recovered from a panic in user supplied code.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
