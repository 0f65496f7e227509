package strata

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/danpasecinic/strata/internal/container"
	"github.com/danpasecinic/strata/internal/graph"
	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

// Container is the frozen set of descriptors shared by every scope of one
// tree. It also holds the singleton instances.
type Container struct {
	registry   *container.Registry[reflect.Type, *Descriptor]
	byID       map[uuid.UUID]*Descriptor
	graph      *graph.Graph
	singletons container.Cache[uuid.UUID]
	owned      container.Tracker[tracked]
	config     *containerConfig
}

type containerConfig struct {
	logger    *slog.Logger
	onResolve []ResolveHook
	onDispose []DisposeHook
	onScope   []ScopeHook
}

// tracked is an instance awaiting disposal.
type tracked struct {
	descriptor *Descriptor
	instance   any
}

// Build freezes descriptors into a container and returns its root scope.
// When several descriptors share a service type, the last one wins.
func Build(descriptors []*Descriptor, opts ...Option) *Scope {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	c := newContainer(descriptors, cfg)
	cfg.logger.Debug("container built", "descriptors", c.Len())

	return newScope(c, nil, RootDepth)
}

func newContainer(descriptors []*Descriptor, cfg *containerConfig) *Container {
	valid := make([]*Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d != nil {
			valid = append(valid, d)
		}
	}

	registry := container.NewRegistry(valid, func(d *Descriptor) reflect.Type {
		return d.serviceType
	})

	byID := make(map[uuid.UUID]*Descriptor, registry.Len())
	g := graph.New()
	for _, d := range registry.Values() {
		byID[d.id] = d
		deps := make([]string, len(d.dependencies))
		for i, dep := range d.dependencies {
			deps[i] = reflectx.Name(dep)
		}
		g.AddNode(reflectx.Name(d.serviceType), deps)
	}

	return &Container{
		registry: registry,
		byID:     byID,
		graph:    g,
		config:   cfg,
	}
}

// Get returns the descriptor bound to t.
func (c *Container) Get(t reflect.Type) (*Descriptor, bool) {
	return c.registry.Get(t)
}

func (c *Container) Has(t reflect.Type) bool {
	return c.registry.Has(t)
}

func (c *Container) Len() int {
	return c.registry.Len()
}

// Descriptors returns the winning descriptors in registration order.
func (c *Container) Descriptors() []*Descriptor {
	return c.registry.Values()
}

// Validate reports every synthesized dependency that no descriptor provides.
// Resolver, *Scope and *Container are always available.
func (c *Container) Validate() error {
	missing := c.graph.Validate(
		reflectx.Name(resolverType),
		reflectx.Name(scopeType),
		reflectx.Name(containerType),
	)

	var errs error
	for _, m := range missing {
		errs = multierr.Append(errs, fmt.Errorf("%s depends on unbound %s", m.Node, m.Dependency))
	}
	if errs != nil {
		return errValidationFailed(errs)
	}
	return nil
}

func (c *Container) singleton(d *Descriptor, r *Scope) (any, bool, error) {
	if instance, ok := c.singletons.Load(d.id); ok {
		return instance, true, nil
	}

	instance, err := r.build(d)
	if err != nil || instance == nil {
		return nil, false, err
	}

	actual, loaded := c.singletons.LoadOrStore(d.id, instance)
	if loaded {
		c.discard(d, instance)
		return actual, true, nil
	}

	if d.trackable() && !c.owned.Add(tracked{descriptor: d, instance: instance}) {
		c.singletons.CompareAndDelete(d.id, instance)
		c.discard(d, instance)
		return nil, false, errScopeDisposed(RootDepth)
	}
	return instance, true, nil
}

// discard disposes an instance that will not be kept: the loser of a
// creation race, or one finished after its owner was disposed.
func (c *Container) discard(d *Descriptor, instance any) {
	c.config.logger.Debug("discarding instance",
		"service", reflectx.Name(d.serviceType), "id", d.id)
	if !d.trackable() {
		return
	}
	if err := disposeInstance(context.Background(), tracked{descriptor: d, instance: instance}); err != nil {
		c.config.logger.Warn("dispose of discarded instance failed",
			"service", reflectx.Name(d.serviceType), "error", err)
	}
}

func (c *Container) disposeSingletons(ctx context.Context, async bool) error {
	err := teardown(ctx, async, c.owned.Drain())
	c.singletons.Clear()
	return err
}

func (c *Container) observeResolve(service reflect.Type, depth int, d time.Duration, err error) {
	name := reflectx.Name(service)
	for _, hook := range c.config.onResolve {
		hook(name, depth, d, err)
	}
}

func (c *Container) observeDispose(depth int, d time.Duration, err error) {
	for _, hook := range c.config.onDispose {
		hook(depth, d, err)
	}
}

func (c *Container) observeScope(depth int) {
	for _, hook := range c.config.onScope {
		hook(depth)
	}
}
