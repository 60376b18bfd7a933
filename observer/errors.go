package observer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPath  = errors.New("depwatch: invalid watch path")
	ErrRootMutation = errors.New("depwatch: cannot add or delete root level keys on an instance root")
	ErrSealedField  = errors.New("depwatch: field cannot be redefined")
)

// EvalError annotates an error raised by a user computation with the phase
// it was raised in, e.g. `getter for watcher "a.b"`.
type EvalError struct {
	Info string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("error in %s: %v", e.Info, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking user computation.
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
