// Package guard detects value objects and commands that bypassed their
// constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands, queries and value objects. Its zero
// value is invalid; only NewConstructorGuard produces a passing guard, so a
// struct literal can be told apart from a constructed instance.
//
//	type SubmitReviewCommand struct {
//	    rating int
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c SubmitReviewCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is the zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
