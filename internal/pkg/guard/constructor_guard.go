// Package guard provides a defensive-programming primitive that forces value
// objects and entities to be created through their designated constructors.
// A zero-value guard fails validation, so structs embedding a ConstructorGuard
// cannot be instantiated directly without being detected.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by Validate when no
// specific error is supplied by the caller.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having passed through its constructor.
// Embed it as a private field and initialize it with NewConstructorGuard;
// the zero value reports the object as not constructed.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard in the constructed state.
// Call it only from the owning type's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns notConstructedErr, or ErrNotConstructed when nil is given.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}

	return notConstructedErr
}
