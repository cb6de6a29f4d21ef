// Package validate checks plugins against plugin models.
//
// Validation runs two passes and never stops early. The structural pass
// checks every spec in model declaration order (required, unique, value
// constraints) and then flags contribution names the model does not declare.
// The dependency pass evaluates every dependency in declaration order. The
// report is the concatenation of both, so the same inputs always produce the
// same error sequence.
package validate

import (
	"slices"

	"github.com/rendis/khimera/pkg/model"
	"github.com/rendis/khimera/pkg/plugin"
	"github.com/rendis/khimera/pkg/schema"
)

// Validate checks p against m and returns a fresh report. Neither input is
// modified. A nil model behaves as a model without specs and a nil plugin
// as a plugin without contributions.
func Validate(p *plugin.Plugin, m *model.Model) *schema.Report {
	p = plugin.OrEmpty(p)
	m = model.OrEmpty(m)

	b := schema.NewReportBuilder(p.Name(), m.Name())
	checkStructure(b, p, m)
	checkDependencies(b, p, m)
	return b.Build()
}

// checkStructure runs the per-spec checks followed by the unknown-name check.
func checkStructure(b *schema.ReportBuilder, p *plugin.Plugin, m *model.Model) {
	for _, s := range m.Specs() {
		name := s.Name()
		values := p.Get(name)

		if s.Required() && len(values) == 0 {
			b.Add(schema.MissingRequiredField(name))
		}
		if s.Unique() && len(values) > 1 {
			b.Add(schema.DuplicateUniqueField(name, len(values)))
		}
		for i, v := range values {
			for _, c := range s.ValidateValue(v) {
				b.Add(schema.ConstraintViolation(name, i, c.Describe()))
			}
		}
	}

	// Values under unknown names are not constraint-checked.
	for _, name := range p.Names() {
		if !m.Has(name) {
			b.Add(schema.UnknownField(name))
		}
	}
}

// checkDependencies evaluates each dependency against contribution presence.
func checkDependencies(b *schema.ReportBuilder, p *plugin.Plugin, m *model.Model) {
	for _, d := range m.Dependencies() {
		if !active(p, d) {
			continue
		}
		rel := d.Relation.String()

		switch d.Relation {
		case model.RelationRequires:
			for _, t := range d.Targets {
				if !p.Has(t) {
					b.Add(schema.DependencyViolation(d.Subject, rel, t))
				}
			}
		case model.RelationConflicts:
			for _, t := range d.Targets {
				if p.Has(t) {
					b.Add(schema.DependencyViolation(d.Subject, rel, t))
				}
			}
		case model.RelationRequiresOneOf:
			if !slices.ContainsFunc(d.Targets, p.Has) {
				b.Add(schema.DependencySetViolation(d.Subject, rel, d.Targets))
			}
		}
	}
}

// active reports whether the subject is present and, for conditional rules,
// whether some subject value satisfies the condition.
func active(p *plugin.Plugin, d model.Dependency) bool {
	values := p.Get(d.Subject)
	if len(values) == 0 {
		return false
	}
	if d.Condition == nil {
		return true
	}
	return slices.ContainsFunc(values, d.Condition.Check)
}
