package validate

import (
	"github.com/rendis/khimera/pkg/plugin"
	"github.com/rendis/khimera/pkg/schema"
)

// Extract returns a copy of p keeping only what report found acceptable.
// Unknown fields are dropped and duplicated unique fields are cut to their
// first value. A field is then dropped if any value it still holds violated
// a constraint. Missing fields and dependency violations cannot be repaired
// and are left as they are.
func Extract(p *plugin.Plugin, report *schema.Report) *plugin.Plugin {
	out := plugin.OrEmpty(p).Clone()
	if report == nil {
		return out
	}

	errs := report.Errors()
	for _, e := range errs {
		switch e.Kind {
		case schema.KindUnknownField:
			out.Remove(e.Spec)
		case schema.KindDuplicateUniqueField:
			out.Truncate(e.Spec, 1)
		}
	}
	for _, e := range errs {
		if e.Kind == schema.KindConstraintViolation && e.Index < out.Count(e.Spec) {
			out.Remove(e.Spec)
		}
	}
	return out
}
