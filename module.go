package strata

import (
	"fmt"

	"go.uber.org/multierr"
)

// Module groups descriptors so related services can be registered together.
// Registration errors are collected and reported by Err and Build rather
// than at each call.
type Module struct {
	name        string
	descriptors []*Descriptor
	submodules  []*Module
	errs        error
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Add(descriptors ...*Descriptor) *Module {
	for _, d := range descriptors {
		if d == nil {
			m.errs = multierr.Append(m.errs, fmt.Errorf("module %s: nil descriptor", m.name))
			continue
		}
		m.descriptors = append(m.descriptors, d)
	}
	return m
}

func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

// Descriptors flattens the module, submodules first. A later module
// overrides an earlier one for the same service type.
func (m *Module) Descriptors() []*Descriptor {
	var out []*Descriptor
	for _, sub := range m.submodules {
		out = append(out, sub.Descriptors()...)
	}
	return append(out, m.descriptors...)
}

func (m *Module) Err() error {
	var errs error
	for _, sub := range m.submodules {
		errs = multierr.Append(errs, sub.Err())
	}
	return multierr.Append(errs, m.errs)
}

// Build builds a container from the module and returns its root scope.
func (m *Module) Build(opts ...Option) (*Scope, error) {
	if err := m.Err(); err != nil {
		return nil, errModuleBuildFailed(m.name, err)
	}
	return Build(m.Descriptors(), opts...), nil
}

func (m *Module) retain(d *Descriptor, err error) *Module {
	if err != nil {
		m.errs = multierr.Append(m.errs, err)
		return m
	}
	m.descriptors = append(m.descriptors, d)
	return m
}

func ModuleProvide[TService, TImpl any](m *Module, depth Depth, factory func(Resolver) (TImpl, error)) *Module {
	return m.retain(Provide[TService](depth, factory))
}

func ModuleSynthesize[TService any](m *Module, depth Depth, constructors ...any) *Module {
	return m.retain(Synthesize[TService](depth, constructors...))
}

func ModuleProvideValue[TService any](m *Module, value TService) *Module {
	return m.retain(ProvideValue(value), nil)
}
