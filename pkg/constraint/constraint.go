// Package constraint defines checkable rules over a single contributed value.
//
// A Constraint is a pure predicate tagged with a human-readable description.
// Constraints hold no mutable state, so one value can be shared by any number
// of specs and evaluated concurrently.
package constraint

import "strings"

// Constraint is a single checkable rule over a candidate value.
type Constraint interface {
	// Check reports whether value satisfies the rule. It never panics on
	// values of an unexpected type; such values simply fail.
	Check(value any) bool
	// Describe returns the text used in violation messages.
	Describe() string
}

type rule struct {
	desc  string
	check func(any) bool
}

func (r rule) Check(value any) bool {
	if r.check == nil {
		return false
	}
	return r.check(value)
}

func (r rule) Describe() string { return r.desc }

// Predicate wraps a user-supplied function. A nil fn fails every value.
func Predicate(description string, fn func(value any) bool) Constraint {
	return rule{desc: description, check: fn}
}

// All combines constraints with logical AND. Nil entries are skipped.
func All(cs ...Constraint) Constraint {
	kept := make([]Constraint, 0, len(cs))
	descs := make([]string, 0, len(cs))
	for _, c := range cs {
		if c == nil {
			continue
		}
		kept = append(kept, c)
		descs = append(descs, c.Describe())
	}
	if len(kept) == 0 {
		return rule{desc: "always", check: func(any) bool { return true }}
	}
	return rule{
		desc: strings.Join(descs, " and "),
		check: func(v any) bool {
			for _, c := range kept {
				if !c.Check(v) {
					return false
				}
			}
			return true
		},
	}
}
