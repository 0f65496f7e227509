package strata

import (
	"reflect"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

// Resolver is the view of a scope that factories and constructors receive.
// *Scope is the only implementation shipped with the package.
type Resolver interface {
	// ResolveType returns the instance for t. A service with no descriptor
	// yields (nil, false, nil). Depth conflicts are reported as a
	// *DeeperScopeRequiredError.
	ResolveType(t reflect.Type) (any, bool, error)

	// RequireType is ResolveType with a missing service turned into a
	// could-not-be-resolved error.
	RequireType(t reflect.Type) (any, error)

	// Depth is the depth of the scope doing the resolving.
	Depth() int
}

// Resolve returns the instance of T visible from r. The boolean is false when
// no descriptor is bound to T.
func Resolve[T any](r Resolver) (T, bool, error) {
	var zero T
	t := reflectx.TypeOf[T]()

	instance, ok, err := r.ResolveType(t)
	if err != nil || !ok {
		return zero, false, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, false, errTypeMismatch(t, instance)
	}

	return typed, true, nil
}

// Require returns the instance of T or an error when it cannot be produced.
func Require[T any](r Resolver) (T, error) {
	var zero T
	t := reflectx.TypeOf[T]()

	instance, err := r.RequireType(t)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(t, instance)
	}

	return typed, nil
}

func MustRequire[T any](r Resolver) T {
	v, err := Require[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve is Resolve with any error folded into the boolean.
func TryResolve[T any](r Resolver) (T, bool) {
	v, ok, err := Resolve[T](r)
	return v, ok && err == nil
}

type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// ResolveOptional wraps Resolve. Unbound services and resolution errors both
// come back as None.
func ResolveOptional[T any](r Resolver) Optional[T] {
	v, ok := TryResolve[T](r)
	if !ok {
		return None[T]()
	}
	return Some(v)
}
