package strata

import "github.com/danpasecinic/strata/internal/scope"

// Depth is the lifetime of a descriptor: one of the reserved bands below or a
// concrete scope depth (0 for the root, 1 for its first deeper scope, ...).
type Depth = scope.Depth

const (
	// Transient descriptors build a new instance on every resolution. The
	// resolving scope owns it.
	Transient = scope.Transient

	// Singleton descriptors build once per container. The root owns them.
	Singleton = scope.Singleton

	// ProviderScoped descriptors build once per scope, whatever its depth.
	ProviderScoped = scope.ProviderScoped
)

// RootDepth is the depth of the scope returned by Build.
const RootDepth = scope.Root

// AtDepth binds a descriptor to the scope at depth n.
func AtDepth(n int) Depth {
	return Depth(n)
}
