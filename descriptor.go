package strata

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

// Disposable is implemented by instances that release resources when the
// owning scope is disposed.
type Disposable interface {
	Dispose() error
}

// AsyncDisposable is implemented by instances whose teardown blocks. It is
// preferred over Disposable when an instance implements both.
type AsyncDisposable interface {
	DisposeAsync(ctx context.Context) error
}

// Factory builds an instance. The resolver is the scope that requested it.
type Factory func(r Resolver) (any, error)

var (
	disposableType      = reflectx.TypeOf[Disposable]()
	asyncDisposableType = reflectx.TypeOf[AsyncDisposable]()
)

// Descriptor is the immutable recipe for one service: what it is, how deep it
// lives, and how to build it.
type Descriptor struct {
	id                 uuid.UUID
	serviceType        reflect.Type
	implementationType reflect.Type
	depth              Depth
	create             Factory
	dependencies       []reflect.Type
	disposable         bool
	asyncDisposable    bool
	owned              bool
}

func newDescriptor(
	service, impl reflect.Type,
	depth Depth,
	create Factory,
	dependencies []reflect.Type,
) (*Descriptor, error) {
	if !depth.Valid() {
		return nil, errInvalidDepth(service, depth)
	}

	return &Descriptor{
		id:                 uuid.Must(uuid.NewV7()),
		serviceType:        service,
		implementationType: impl,
		depth:              depth,
		create:             create,
		dependencies:       dependencies,
		disposable:         reflectx.Implements(impl, disposableType),
		asyncDisposable:    reflectx.Implements(impl, asyncDisposableType),
		owned:              true,
	}, nil
}

// Provide describes TService built by factory as a TImpl.
func Provide[TService, TImpl any](depth Depth, factory func(Resolver) (TImpl, error)) (*Descriptor, error) {
	service := reflectx.TypeOf[TService]()
	impl := reflectx.TypeOf[TImpl]()

	if factory == nil {
		return nil, errInvalidConstructor(service, fmt.Errorf("nil factory"))
	}
	if !impl.AssignableTo(service) {
		return nil, errInvalidConstructor(
			service,
			fmt.Errorf("%s is not assignable to %s", reflectx.Name(impl), reflectx.Name(service)),
		)
	}

	create := func(r Resolver) (any, error) {
		instance, err := factory(r)
		if err != nil {
			return nil, err
		}
		return instance, nil
	}

	return newDescriptor(service, impl, depth, create, nil)
}

func MustProvide[TService, TImpl any](depth Depth, factory func(Resolver) (TImpl, error)) *Descriptor {
	d, err := Provide[TService](depth, factory)
	if err != nil {
		panic(err)
	}
	return d
}

// ProvideValue describes an existing value as a singleton. The container does
// not own it and never disposes it.
func ProvideValue[TService any](value TService) *Descriptor {
	service := reflectx.TypeOf[TService]()
	impl := reflect.TypeOf(value)
	if impl == nil {
		impl = service
	}

	d, _ := newDescriptor(service, impl, Singleton, func(Resolver) (any, error) {
		return value, nil
	}, nil)
	d.owned = false
	return d
}

func (d *Descriptor) ID() uuid.UUID {
	return d.id
}

func (d *Descriptor) ServiceType() reflect.Type {
	return d.serviceType
}

func (d *Descriptor) ImplementationType() reflect.Type {
	return d.implementationType
}

func (d *Descriptor) Depth() Depth {
	return d.depth
}

// Dependencies lists the service types the factory requests, when known.
// Hand-written factories report none.
func (d *Descriptor) Dependencies() []reflect.Type {
	return slices.Clone(d.dependencies)
}

func (d *Descriptor) IsDisposable() bool {
	return d.disposable
}

func (d *Descriptor) IsAsyncDisposable() bool {
	return d.asyncDisposable
}

// Owned reports whether instances are tracked for disposal.
func (d *Descriptor) Owned() bool {
	return d.owned
}

func (d *Descriptor) String() string {
	return fmt.Sprintf(
		"%s <- %s (%s)",
		reflectx.Name(d.serviceType), reflectx.Name(d.implementationType), d.depth,
	)
}

func (d *Descriptor) trackable() bool {
	return d.owned && (d.disposable || d.asyncDisposable)
}
