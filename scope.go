package strata

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/danpasecinic/strata/internal/container"
)

// Scope is a node of the scope tree and the Resolver handed to factories.
//
// Instances bound to the scope's depth, and provider-scoped instances, are
// cached on the scope. Shallower descriptors are forwarded to the parent, and
// deeper ones fail with a *DeeperScopeRequiredError. A scope never disposes
// its parent. The parent link is only used for lookups and is dropped when
// the scope is disposed.
type Scope struct {
	container *Container
	depth     int
	root      bool

	parentMu sync.RWMutex
	parent   *Scope

	instances        container.Cache[uuid.UUID]
	asyncDisposables container.Tracker[tracked]
	disposables      container.Tracker[tracked]
	children         sync.Map

	disposed atomic.Bool
}

func newScope(c *Container, parent *Scope, depth int) *Scope {
	s := &Scope{
		container: c,
		depth:     depth,
		root:      parent == nil,
	}

	parentDepth := -1
	if parent != nil {
		parentDepth = parent.depth
		s.parent = parent
		parent.children.Store(s, struct{}{})
		if parent.disposed.Load() {
			s.disposed.Store(true)
			s.detach()
		}
	}

	c.config.logger.Debug("scope created", "depth", depth, "parent_depth", parentDepth)
	c.observeScope(depth)
	return s
}

// NewSiblingScope creates a child at the same depth. Its depth-bound
// instances are independent of this scope's.
func (s *Scope) NewSiblingScope() *Scope {
	return newScope(s.container, s, s.depth)
}

// NewDeeperScope creates a child one level deeper.
func (s *Scope) NewDeeperScope() *Scope {
	return newScope(s.container, s, s.depth+1)
}

func (s *Scope) Depth() int {
	return s.depth
}

// Parent returns the parent scope, or nil for the root and for scopes that
// have been disposed.
func (s *Scope) Parent() *Scope {
	s.parentMu.RLock()
	defer s.parentMu.RUnlock()
	return s.parent
}

func (s *Scope) Container() *Container {
	return s.container
}

// Children returns the live children of s.
func (s *Scope) Children() []*Scope {
	var children []*Scope
	s.children.Range(func(key, _ any) bool {
		children = append(children, key.(*Scope))
		return true
	})
	return children
}

func (s *Scope) Disposed() bool {
	return s.disposed.Load()
}

func (s *Scope) ResolveType(t reflect.Type) (any, bool, error) {
	if len(s.container.config.onResolve) == 0 {
		return s.resolve(t)
	}

	start := time.Now()
	instance, ok, err := s.resolve(t)
	s.container.observeResolve(t, s.depth, time.Since(start), err)
	return instance, ok, err
}

func (s *Scope) RequireType(t reflect.Type) (any, error) {
	instance, ok, err := s.ResolveType(t)
	if err != nil {
		return nil, requireError(t, err)
	}
	if !ok {
		return nil, errCouldNotBeResolved(t, nil)
	}
	return instance, nil
}

func (s *Scope) resolve(t reflect.Type) (any, bool, error) {
	if s.disposed.Load() {
		return nil, false, errScopeDisposed(s.depth)
	}

	d, ok := s.container.registry.Get(t)
	if !ok {
		switch t {
		case resolverType, scopeType:
			return s, true, nil
		case containerType:
			return s.container, true, nil
		}
		return nil, false, nil
	}

	return s.resolveDescriptor(d)
}

func (s *Scope) resolveDescriptor(d *Descriptor) (any, bool, error) {
	if s.disposed.Load() {
		return nil, false, errScopeDisposed(s.depth)
	}

	depth := int(d.depth)
	switch {
	case d.depth == Transient:
		instance, err := s.build(d)
		if err != nil || instance == nil {
			return nil, false, err
		}
		if err := s.track(d, instance); err != nil {
			return nil, false, err
		}
		return instance, true, nil

	case d.depth == Singleton:
		return s.container.singleton(d, s)

	case d.depth == ProviderScoped, depth == s.depth:
		return s.scoped(d)

	case depth < s.depth:
		parent := s.Parent()
		if parent == nil {
			return nil, false, nil
		}
		return parent.resolveDescriptor(d)

	default:
		return nil, false, &DeeperScopeRequiredError{
			ServiceType: d.serviceType,
			Depth:       s.depth,
			Required:    d.depth,
		}
	}
}

func (s *Scope) scoped(d *Descriptor) (any, bool, error) {
	if instance, ok := s.instances.Load(d.id); ok {
		return instance, true, nil
	}

	instance, err := s.build(d)
	if err != nil || instance == nil {
		return nil, false, err
	}

	actual, loaded := s.instances.LoadOrStore(d.id, instance)
	if loaded {
		s.container.discard(d, instance)
		return actual, true, nil
	}

	if err := s.track(d, instance); err != nil {
		s.instances.CompareAndDelete(d.id, instance)
		return nil, false, err
	}
	return instance, true, nil
}

// build runs the creation function. An instance finished after s was
// disposed is discarded.
func (s *Scope) build(d *Descriptor) (any, error) {
	instance, err := d.create(s)
	if err != nil {
		return nil, errConstructionFailed(d.serviceType, err)
	}
	if instance != nil && s.disposed.Load() {
		s.container.discard(d, instance)
		return nil, errScopeDisposed(s.depth)
	}
	return instance, nil
}

// track hands instance to s for disposal. If s has already been torn down
// the instance is disposed on the spot and the resolution fails.
func (s *Scope) track(d *Descriptor, instance any) error {
	if !d.trackable() {
		return nil
	}

	entry := tracked{descriptor: d, instance: instance}
	var added bool
	if d.asyncDisposable {
		added = s.asyncDisposables.Add(entry)
	} else {
		added = s.disposables.Add(entry)
	}
	if added {
		return nil
	}

	s.container.discard(d, instance)
	return errScopeDisposed(s.depth)
}
