package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rendis/khimera/pkg/schema"
	"github.com/rendis/khimera/pkg/spec"
)

// Builder assembles a Model. It is confined to a single writer; once Build
// has returned, every mutation fails with schema.ErrModelPublished.
type Builder struct {
	name      string
	version   string
	specs     []*spec.ComponentSpec
	index     map[string]int
	deps      []Dependency
	published bool
}

// NewBuilder starts an empty model.
func NewBuilder(name, version string) *Builder {
	return &Builder{name: name, version: version, index: make(map[string]int)}
}

// Derive starts an unpublished builder seeded with m's specs and
// dependencies. The result can override or extend m without touching it.
func Derive(m *Model) *Builder {
	m = OrEmpty(m)
	b := NewBuilder(m.name, m.version)
	b.specs = slices.Clone(m.specs)
	for name, i := range m.index {
		b.index[name] = i
	}
	b.deps = m.Dependencies()
	return b
}

// WithVersion overrides the version of a derived model.
func (b *Builder) WithVersion(version string) *Builder {
	b.version = version
	return b
}

// AddSpec appends s. Its name must not already be declared.
func (b *Builder) AddSpec(s *spec.ComponentSpec) error {
	if b.published {
		return errPublished("add spec")
	}
	if s == nil {
		return schema.NewError(schema.ErrCodeInvalidSpecDefinition, "spec is nil")
	}
	if _, dup := b.index[s.Name()]; dup {
		return schema.NewErrorf(schema.ErrCodeDuplicateSpecName,
			"spec %q already declared", s.Name()).WithSpec(s.Name())
	}
	b.index[s.Name()] = len(b.specs)
	b.specs = append(b.specs, s)
	return nil
}

// AddDependency appends d. Every name it references must already be declared.
func (b *Builder) AddDependency(d Dependency) error {
	if b.published {
		return errPublished("add dependency")
	}
	if !d.Relation.Valid() {
		return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
			"unknown relation %q", d.Relation).WithSpec(d.Subject)
	}
	if len(d.Targets) == 0 {
		return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
			"%s dependency has no targets", d.Relation).WithSpec(d.Subject)
	}

	seen := make(map[string]struct{}, len(d.Targets))
	for _, t := range d.Targets {
		if t == d.Subject {
			return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
				"dependency subject %q is among its targets", t).WithSpec(d.Subject)
		}
		if _, dup := seen[t]; dup {
			return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
				"dependency target %q listed twice", t).WithSpec(d.Subject)
		}
		seen[t] = struct{}{}
	}

	var unknown []string
	for _, name := range append([]string{d.Subject}, d.Targets...) {
		if _, ok := b.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return schema.NewErrorf(schema.ErrCodeUnknownSpecReference,
			"dependency references undeclared specs: %s", strings.Join(unknown, ", ")).
			WithSpec(d.Subject).
			WithDetails(map[string]any{"unknown": unknown})
	}

	b.deps = append(b.deps, d.clone())
	return nil
}

// RemoveSpec drops a declared spec. A spec still referenced by a dependency
// cannot be removed.
func (b *Builder) RemoveSpec(name string) error {
	if b.published {
		return errPublished("remove spec")
	}
	i, ok := b.index[name]
	if !ok {
		return schema.NewErrorf(schema.ErrCodeUnknownSpecReference, "spec %q is not declared", name).WithSpec(name)
	}
	for _, d := range b.deps {
		if d.Subject == name || slices.Contains(d.Targets, name) {
			return schema.NewErrorf(schema.ErrCodeUnknownSpecReference,
				"spec %q is still referenced by dependency %q", name, d.String()).WithSpec(name)
		}
	}

	b.specs = slices.Delete(b.specs, i, i+1)
	delete(b.index, name)
	for j := i; j < len(b.specs); j++ {
		b.index[b.specs[j].Name()] = j
	}
	return nil
}

// Build publishes the model. The builder is unusable afterwards.
func (b *Builder) Build() (*Model, error) {
	if b.published {
		return nil, errPublished("build")
	}
	if strings.TrimSpace(b.name) == "" {
		return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition, "model name is empty")
	}
	b.published = true

	index := make(map[string]int, len(b.index))
	for name, i := range b.index {
		index[name] = i
	}
	return &Model{
		name:    b.name,
		version: b.version,
		specs:   slices.Clone(b.specs),
		index:   index,
		deps:    slices.Clone(b.deps),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Model {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// Published reports whether Build has succeeded.
func (b *Builder) Published() bool { return b.published }

func errPublished(op string) error {
	return schema.NewError(schema.ErrCodeModelPublished, fmt.Sprintf("%s: model already published", op))
}
