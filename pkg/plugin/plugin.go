// Package plugin holds plugin instances: named contributions submitted by a
// plugin provider, optionally bound to the model they target.
package plugin

import (
	"slices"

	"github.com/rendis/khimera/pkg/model"
	"github.com/rendis/khimera/pkg/spec"
)

// Plugin is a mutable contribution store. Adding a contribution performs no
// checks; validation is a separate step. A Plugin is not safe for concurrent
// mutation, but concurrent reads are fine once assembly is done.
type Plugin struct {
	name    string
	version string
	model   *model.Model
	order   []string
	values  map[string][]any
}

// New returns an empty, unbound plugin.
func New(name, version string) *Plugin {
	return &Plugin{name: name, version: version, values: make(map[string][]any)}
}

// Name returns the plugin name.
func (p *Plugin) Name() string { return p.name }

// Version returns the plugin version.
func (p *Plugin) Version() string { return p.version }

// Bind sets the model the plugin targets.
func (p *Plugin) Bind(m *model.Model) *Plugin {
	p.model = m
	return p
}

// Model returns the bound model, or nil.
func (p *Plugin) Model() *model.Model { return p.model }

// Add appends value under name. Order is kept per name and across names.
func (p *Plugin) Add(name string, value any) *Plugin {
	if _, ok := p.values[name]; !ok {
		p.order = append(p.order, name)
	}
	p.values[name] = append(p.values[name], value)
	return p
}

// Get returns a copy of the values under name, empty when absent.
func (p *Plugin) Get(name string) []any {
	return slices.Clone(p.values[name])
}

// Count returns the number of values under name.
func (p *Plugin) Count(name string) int { return len(p.values[name]) }

// Has reports whether name has at least one value.
func (p *Plugin) Has(name string) bool { return len(p.values[name]) > 0 }

// Names returns contribution names in first-insertion order.
func (p *Plugin) Names() []string { return slices.Clone(p.order) }

// Remove drops every value under name.
func (p *Plugin) Remove(name string) {
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	p.order = slices.DeleteFunc(p.order, func(n string) bool { return n == name })
}

// Truncate keeps at most the first n values under name. With n <= 0 the
// name is removed.
func (p *Plugin) Truncate(name string, n int) {
	if n <= 0 {
		p.Remove(name)
		return
	}
	if vs := p.values[name]; len(vs) > n {
		p.values[name] = slices.Clip(vs[:n])
	}
}

// Len returns the number of contribution names.
func (p *Plugin) Len() int { return len(p.order) }

// Filter returns the contributions whose spec in the bound model satisfies
// pred. Names the model does not declare are skipped, and an unbound plugin
// yields an empty map.
func (p *Plugin) Filter(pred func(*spec.ComponentSpec) bool) map[string][]any {
	out := make(map[string][]any)
	if p.model == nil {
		return out
	}
	for _, name := range p.order {
		s, ok := p.model.Spec(name)
		if ok && pred(s) {
			out[name] = slices.Clone(p.values[name])
		}
	}
	return out
}

// Clone returns a copy with its own contribution store. Values are shared.
func (p *Plugin) Clone() *Plugin {
	c := &Plugin{
		name:    p.name,
		version: p.version,
		model:   p.model,
		order:   slices.Clone(p.order),
		values:  make(map[string][]any, len(p.values)),
	}
	for name, vs := range p.values {
		c.values[name] = slices.Clone(vs)
	}
	return c
}

// OrEmpty returns p, or an empty unnamed plugin when p is nil.
func OrEmpty(p *Plugin) *Plugin {
	if p == nil {
		return New("", "")
	}
	return p
}
