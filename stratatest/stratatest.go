// Package stratatest builds scopes for tests and asserts on what they resolve.
package stratatest

import (
	"reflect"
	"sync/atomic"

	"github.com/danpasecinic/strata"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestScope is a scope whose tree is disposed when the test ends.
type TestScope struct {
	*strata.Scope
	tb TB
}

func New(tb TB, descriptors ...*strata.Descriptor) *TestScope {
	tb.Helper()
	return wrapRoot(tb, strata.Build(descriptors))
}

func FromModule(tb TB, m *strata.Module, opts ...strata.Option) *TestScope {
	tb.Helper()

	root, err := m.Build(opts...)
	if err != nil {
		tb.Fatalf("failed to build module %s: %v", m.Name(), err)
		return nil
	}
	return wrapRoot(tb, root)
}

func wrapRoot(tb TB, root *strata.Scope) *TestScope {
	tb.Cleanup(func() {
		if err := root.Dispose(); err != nil {
			tb.Fatalf("failed to dispose scope tree: %v", err)
		}
	})
	return &TestScope{Scope: root, tb: tb}
}

// Deeper returns a child one level deeper, disposed with the root.
func (ts *TestScope) Deeper() *TestScope {
	return &TestScope{Scope: ts.NewDeeperScope(), tb: ts.tb}
}

func (ts *TestScope) Sibling() *TestScope {
	return &TestScope{Scope: ts.NewSiblingScope(), tb: ts.tb}
}

func (ts *TestScope) RequireValidate() {
	ts.tb.Helper()

	if err := ts.Container().Validate(); err != nil {
		ts.tb.Fatalf("container validation failed: %v", err)
	}
}

func (ts *TestScope) RequireDispose() {
	ts.tb.Helper()

	if err := ts.Dispose(); err != nil {
		ts.tb.Fatalf("failed to dispose scope at depth %d: %v", ts.Depth(), err)
	}
}

func MustRequire[T any](ts *TestScope) T {
	ts.tb.Helper()

	v, err := strata.Require[T](ts.Scope)
	if err != nil {
		ts.tb.Fatalf("failed to require %s at depth %d: %v", typeName[T](), ts.Depth(), err)
	}
	return v
}

func AssertResolvable[T any](ts *TestScope) {
	ts.tb.Helper()

	_, ok, err := strata.Resolve[T](ts.Scope)
	if err != nil || !ok {
		ts.tb.Fatalf("expected %s to resolve at depth %d (found=%t, err=%v)", typeName[T](), ts.Depth(), ok, err)
	}
}

// AssertNotResolvable fails unless T has no descriptor visible from ts.
func AssertNotResolvable[T any](ts *TestScope) {
	ts.tb.Helper()

	_, ok, err := strata.Resolve[T](ts.Scope)
	if err != nil || ok {
		ts.tb.Fatalf("expected %s to be unbound at depth %d (found=%t, err=%v)", typeName[T](), ts.Depth(), ok, err)
	}
}

func AssertDeeperScopeRequired[T any](ts *TestScope) {
	ts.tb.Helper()

	_, _, err := strata.Resolve[T](ts.Scope)
	if !strata.IsDeeperScopeRequired(err) {
		ts.tb.Fatalf("expected %s to require a deeper scope than %d, got %v", typeName[T](), ts.Depth(), err)
	}
}

// Probe is a Disposable that counts its disposals.
type Probe struct {
	Err      error
	disposed atomic.Int32
}

func (p *Probe) Dispose() error {
	p.disposed.Add(1)
	return p.Err
}

func (p *Probe) Disposals() int {
	return int(p.disposed.Load())
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
