package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when no
// entity-specific error is supplied for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("entity must be created via its constructor")

// ConstructorGuard enforces constructor usage for domain entities.
// It mirrors the guard used by kernel value objects but lives in this package
// so model packages do not need an extra import for their child entities.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a constructed guard; otherwise it returns
// notConstructed, falling back to ErrDefaultConstructorGuard when nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed != nil {
		return notConstructed
	}
	return ErrDefaultConstructorGuard
}
