package spec

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rendis/khimera/pkg/constraint"
	"github.com/rendis/khimera/pkg/schema"
)

// Definition is the input to New.
type Definition struct {
	Name        string
	Description string
	Required    bool // the plugin must contribute at least one value
	Unique      bool // the plugin may contribute at most one value
	Rules       Rules
	Constraints []constraint.Constraint
}

// ComponentSpec is a validated, immutable spec. It is safe for concurrent use.
type ComponentSpec struct {
	name        string
	description string
	required    bool
	unique      bool
	rules       Rules
	typeCheck   constraint.Constraint
	kindChecks  []constraint.Constraint
	constraints []constraint.Constraint
}

// New validates def and returns the spec. Errors carry
// schema.ErrCodeInvalidSpecDefinition.
func New(def Definition) (*ComponentSpec, error) {
	name := def.Name
	if strings.TrimSpace(name) == "" {
		return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition, "spec name is empty")
	}
	if def.Rules == nil {
		return nil, schema.NewError(schema.ErrCodeInvalidSpecDefinition, "spec has no rules").WithSpec(name)
	}

	rules, err := def.Rules.normalize()
	if err != nil {
		if kErr, ok := err.(*schema.Error); ok {
			return nil, kErr.WithSpec(name)
		}
		return nil, err
	}

	for i, c := range def.Constraints {
		if c == nil {
			return nil, schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
				"constraint %d is nil", i).WithSpec(name)
		}
	}

	return &ComponentSpec{
		name:        name,
		description: def.Description,
		required:    def.Required,
		unique:      def.Unique,
		rules:       rules,
		typeCheck:   rules.typeConstraint(),
		kindChecks:  rules.kindConstraints(),
		constraints: slices.Clone(def.Constraints),
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level host models.
func MustNew(def Definition) *ComponentSpec {
	s, err := New(def)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *ComponentSpec) Name() string { return s.name }

func (s *ComponentSpec) Kind() Kind { return s.rules.Kind() }

func (s *ComponentSpec) Required() bool { return s.required }

func (s *ComponentSpec) Unique() bool { return s.unique }

func (s *ComponentSpec) Description() string { return s.description }

// Rules returns a copy of the kind-specific rules.
func (s *ComponentSpec) Rules() Rules {
	r, _ := s.rules.normalize()
	return r
}

// Constraints returns a copy of the user constraints, in declaration order.
func (s *ComponentSpec) Constraints() []constraint.Constraint {
	return slices.Clone(s.constraints)
}

// ValidateValue returns the constraints v violates, in order: the kind
// constraints first, then the user constraints. A value of the wrong type
// reports only the type constraint.
func (s *ComponentSpec) ValidateValue(v any) []constraint.Constraint {
	if s.typeCheck != nil && !s.typeCheck.Check(v) {
		return []constraint.Constraint{s.typeCheck}
	}

	var violated []constraint.Constraint
	for _, c := range s.kindChecks {
		if !c.Check(v) {
			violated = append(violated, c)
		}
	}
	for _, c := range s.constraints {
		if !c.Check(v) {
			violated = append(violated, c)
		}
	}
	return violated
}

func (s *ComponentSpec) String() string {
	flags := make([]string, 0, 2)
	if s.required {
		flags = append(flags, "required")
	}
	if s.unique {
		flags = append(flags, "unique")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s(%s)", s.name, s.Kind())
	}
	return fmt.Sprintf("%s(%s, %s)", s.name, s.Kind(), strings.Join(flags, ", "))
}
