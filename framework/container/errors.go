package container

import (
	"errors"
	"fmt"
)

var (
	// ErrClassNotInstantiable is returned when the requested class is
	// abstract, an interface, or otherwise cannot be constructed.
	ErrClassNotInstantiable = errors.New("class is not instantiable")

	// ErrUnknownClass is returned when the introspection provider knows
	// nothing about the requested identifier.
	ErrUnknownClass = errors.New("unknown class")

	// ErrConstructorFailed is returned when a constructor returns an error,
	// returns nil, or panics.
	ErrConstructorFailed = errors.New("constructor failed")

	// ErrCircularDependency is returned when a class depends on itself,
	// directly or transitively. The message includes the full chain.
	ErrCircularDependency = errors.New("circular dependency detected")
)

// ResolutionError is the error returned by Resolver.Resolve. Class is the
// normalized identifier that was requested; Err is the underlying cause,
// possibly raised deep inside the dependency graph.
type ResolutionError struct {
	Class string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("container: cannot resolve [%s]: %v", e.Class, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
