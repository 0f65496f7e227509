package strata

import (
	"fmt"
	"reflect"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

var (
	resolverType  = reflectx.TypeOf[Resolver]()
	scopeType     = reflectx.TypeOf[*Scope]()
	containerType = reflectx.TypeOf[*Container]()
)

func isResolverParam(t reflect.Type) bool {
	return t == resolverType || t == scopeType
}

// Synthesize derives a descriptor for TService from its constructors.
//
// A constructor is any func returning T or (T, error) where T is assignable
// to TService. The first candidate without parameters wins, then the first
// one taking only a Resolver (or *Scope). Otherwise exactly one parameterized
// candidate must remain; each parameter is required from the resolving scope.
func Synthesize[TService any](depth Depth, constructors ...any) (*Descriptor, error) {
	service := reflectx.TypeOf[TService]()
	if len(constructors) == 0 {
		return nil, errNoUsableConstructor(service)
	}

	candidates := make([]*reflectx.Func, 0, len(constructors))
	for _, c := range constructors {
		fn, err := reflectx.InspectFunc(c)
		if err != nil {
			return nil, errInvalidConstructor(service, err)
		}
		if !fn.Result.AssignableTo(service) {
			return nil, errInvalidConstructor(
				service,
				fmt.Errorf("returns %s, expected %s", reflectx.Name(fn.Result), reflectx.Name(service)),
			)
		}
		candidates = append(candidates, fn)
	}

	ctor, err := selectConstructor(service, candidates)
	if err != nil {
		return nil, err
	}

	create, deps := synthesizeFactory[TService](ctor)
	return newDescriptor(service, ctor.Result, depth, create, deps)
}

func MustSynthesize[TService any](depth Depth, constructors ...any) *Descriptor {
	d, err := Synthesize[TService](depth, constructors...)
	if err != nil {
		panic(err)
	}
	return d
}

func selectConstructor(service reflect.Type, candidates []*reflectx.Func) (*reflectx.Func, error) {
	for _, c := range candidates {
		if len(c.Params) == 0 {
			return c, nil
		}
	}

	for _, c := range candidates {
		if len(c.Params) == 1 && isResolverParam(c.Params[0]) {
			return c, nil
		}
	}

	if len(candidates) > 1 {
		return nil, errMultipleConstructors(service, len(candidates))
	}
	return candidates[0], nil
}

func synthesizeFactory[TService any](ctor *reflectx.Func) (Factory, []reflect.Type) {
	if create := directFactory[TService](ctor.Value.Interface()); create != nil {
		return create, nil
	}

	params := ctor.Params
	var deps []reflect.Type
	for _, p := range params {
		if !isResolverParam(p) {
			deps = append(deps, p)
		}
	}

	fn := ctor.Value
	returnsError := ctor.ReturnsError

	create := func(r Resolver) (any, error) {
		args := make([]reflect.Value, len(params))
		for i, p := range params {
			arg, err := constructorArg(r, p)
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", i, reflectx.Name(p), err)
			}
			args[i] = arg
		}

		results := fn.Call(args)
		if returnsError && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}

		return results[0].Interface(), nil
	}

	return create, deps
}

func constructorArg(r Resolver, p reflect.Type) (reflect.Value, error) {
	switch p {
	case resolverType:
		return reflect.ValueOf(&r).Elem(), nil
	case scopeType:
		s, ok := r.(*Scope)
		if !ok {
			return reflect.Value{}, fmt.Errorf("resolver %T is not a *Scope", r)
		}
		return reflect.ValueOf(s), nil
	}

	instance, err := r.RequireType(p)
	if err != nil {
		return reflect.Value{}, err
	}
	if instance == nil {
		return reflect.Zero(p), nil
	}
	return reflect.ValueOf(instance), nil
}

// directFactory skips reflect.Call for the common constructor shapes.
func directFactory[TService any](fn any) Factory {
	switch f := fn.(type) {
	case func() TService:
		return func(Resolver) (any, error) {
			return f(), nil
		}
	case func() (TService, error):
		return func(Resolver) (any, error) {
			v, err := f()
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	case func(Resolver) TService:
		return func(r Resolver) (any, error) {
			return f(r), nil
		}
	case func(Resolver) (TService, error):
		return func(r Resolver) (any, error) {
			v, err := f(r)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	return nil
}
