// Package strata is a dependency-resolution runtime with nested lifetimes.
//
// Besides the usual transient and singleton lifetimes, strata binds services
// to a scope depth. The root scope has depth 0, a deeper scope one more than
// its parent, and a service bound to depth n is built once per scope of that
// depth and shared by everything below it.
//
// # Quick Start
//
// Describe the services, build the container, resolve from a scope:
//
//	config := strata.ProvideValue(&Config{Port: 8080})
//
//	level := strata.MustSynthesize[*Level](strata.AtDepth(1), NewLevel)
//
//	root := strata.Build([]*strata.Descriptor{config, level})
//	defer root.Dispose()
//
//	s := root.NewDeeperScope()
//	lvl := strata.MustRequire[*Level](s)
//
// # Lifetimes
//
//	strata.Transient       // built on every resolution, owned by the resolving scope
//	strata.Singleton       // built once per container, owned by the root
//	strata.ProviderScoped  // built once per scope, whatever its depth
//	strata.AtDepth(n)      // built once per scope of depth n
//
// Resolving a depth-bound service from a shallower scope fails with a
// *DeeperScopeRequiredError, and one from a deeper scope is forwarded up the
// parent chain to the nearest scope of the right depth.
//
// # Descriptors
//
// Descriptors are built by hand or synthesized from constructors:
//
//	strata.Provide[Service](depth, func(r strata.Resolver) (*Impl, error) { ... })
//	strata.ProvideValue[Service](value)
//	strata.Synthesize[Service](depth, NewImpl)
//
// Synthesize picks a constructor and requires each parameter from the
// resolving scope. Parameters of type strata.Resolver or *strata.Scope
// receive the scope itself.
//
// # Scopes
//
//	root.NewSiblingScope()  // child at the same depth
//	root.NewDeeperScope()   // child one level deeper
//
// # Disposal
//
// Instances implementing Disposable or AsyncDisposable are tracked by the
// scope that owns them. Disposing a scope tears down its instances, newest
// first, then its children, and detaches it from its parent:
//
//	err := s.Dispose()
//	err = <-s.DisposeAsync(ctx)
//
// # Modules
//
//	m := strata.NewModule("storage")
//	strata.ModuleSynthesize[Store](m, strata.Singleton, NewStore)
//	root, err := m.Build()
//
// # Diagnostics
//
//	root.Container().PrintDescriptors()
//	root.PrintTree()
//	root.Health(ctx)
//
// # Observability
//
//	strata.Build(descriptors,
//	    strata.WithLogger(slog.Default()),
//	    strata.WithResolveObserver(func(service string, depth int, d time.Duration, err error) { ... }),
//	)
package strata
