// Package model holds the plugin model: the ordered set of component specs
// and dependency rules a host expects plugins to satisfy.
//
// Models are assembled with a Builder and published with Build. A published
// Model never changes, so it can be shared by concurrent validations without
// locking.
package model

import (
	"slices"

	"github.com/rendis/khimera/pkg/spec"
)

// Model is an immutable plugin model.
type Model struct {
	name    string
	version string
	specs   []*spec.ComponentSpec
	index   map[string]int
	deps    []Dependency
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Version returns the model version.
func (m *Model) Version() string { return m.version }

// Spec returns the spec declared under name.
func (m *Model) Spec(name string) (*spec.ComponentSpec, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.specs[i], true
}

// Has reports whether name is declared.
func (m *Model) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Specs returns the specs in declaration order.
func (m *Model) Specs() []*spec.ComponentSpec {
	return slices.Clone(m.specs)
}

// Dependencies returns the dependencies in declaration order.
func (m *Model) Dependencies() []Dependency {
	out := make([]Dependency, len(m.deps))
	for i, d := range m.deps {
		out[i] = d.clone()
	}
	return out
}

// SpecsOfKind returns the specs of kind k in declaration order.
func (m *Model) SpecsOfKind(k spec.Kind) []*spec.ComponentSpec {
	return m.Filter(func(s *spec.ComponentSpec) bool { return s.Kind() == k })
}

// Filter returns the specs for which pred holds, in declaration order.
func (m *Model) Filter(pred func(*spec.ComponentSpec) bool) []*spec.ComponentSpec {
	var out []*spec.ComponentSpec
	for _, s := range m.specs {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of specs.
func (m *Model) Len() int { return len(m.specs) }

// empty is used wherever a nil model must behave as a model without specs.
var empty = &Model{index: map[string]int{}}

// OrEmpty returns m, or an empty model when m is nil.
func OrEmpty(m *Model) *Model {
	if m == nil {
		return empty
	}
	return m
}
