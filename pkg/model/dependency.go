package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rendis/khimera/pkg/constraint"
)

// Relation is the kind of relational rule a Dependency expresses.
type Relation string

const (
	// RelationRequires: every target must be present when the subject is.
	RelationRequires Relation = "requires"
	// RelationConflicts: no target may be present when the subject is.
	RelationConflicts Relation = "conflicts"
	// RelationRequiresOneOf: at least one target must be present when the subject is.
	RelationRequiresOneOf Relation = "requires_one_of"
)

// Valid reports whether r is one of the declared relations.
func (r Relation) Valid() bool {
	switch r {
	case RelationRequires, RelationConflicts, RelationRequiresOneOf:
		return true
	}
	return false
}

func (r Relation) String() string { return string(r) }

// Dependency is a relational rule between specs of the same model. The rule
// is active when the subject has at least one contribution and, if Condition
// is set, at least one contributed value satisfies it.
type Dependency struct {
	Subject     string
	Relation    Relation
	Targets     []string
	Condition   constraint.Constraint
	Description string
}

func newDependency(subject string, rel Relation, targets []string) Dependency {
	return Dependency{Subject: subject, Relation: rel, Targets: slices.Clone(targets)}
}

// Requires returns a dependency requiring every target when subject is present.
func Requires(subject string, targets ...string) Dependency {
	return newDependency(subject, RelationRequires, targets)
}

// Conflicts returns a dependency forbidding every target when subject is present.
func Conflicts(subject string, targets ...string) Dependency {
	return newDependency(subject, RelationConflicts, targets)
}

// RequiresOneOf returns a dependency requiring at least one target when
// subject is present.
func RequiresOneOf(subject string, targets ...string) Dependency {
	return newDependency(subject, RelationRequiresOneOf, targets)
}

// When returns a copy of d that only applies when some subject value
// satisfies c.
func (d Dependency) When(c constraint.Constraint) Dependency {
	d.Targets = slices.Clone(d.Targets)
	d.Condition = c
	return d
}

// Describe returns a copy of d with a human-readable description.
func (d Dependency) Describe(text string) Dependency {
	d.Targets = slices.Clone(d.Targets)
	d.Description = text
	return d
}

func (d Dependency) String() string {
	s := fmt.Sprintf("%s %s [%s]", d.Subject, d.Relation, strings.Join(d.Targets, ", "))
	if d.Condition != nil {
		s += " when " + d.Condition.Describe()
	}
	return s
}

func (d Dependency) clone() Dependency {
	d.Targets = slices.Clone(d.Targets)
	return d
}
