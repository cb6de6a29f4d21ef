package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ErrorKind classifies a conformance error found while validating a plugin.
type ErrorKind string

const (
	KindMissingRequiredField ErrorKind = "missing_required_field"
	KindDuplicateUniqueField ErrorKind = "duplicate_unique_field"
	KindConstraintViolation  ErrorKind = "constraint_violation"
	KindUnknownField         ErrorKind = "unknown_field"
	KindDependencyViolation  ErrorKind = "dependency_violation"
)

// ValidationError is a single conformance problem. Which fields are set
// depends on Kind:
//   - MissingRequiredField, UnknownField: Spec
//   - DuplicateUniqueField: Spec, Count
//   - ConstraintViolation: Spec, Index, Constraint
//   - DependencyViolation: Spec (the subject), Relation, Target or Targets
type ValidationError struct {
	Kind       ErrorKind `json:"kind"`
	Spec       string    `json:"spec"`
	Index      int       `json:"index,omitempty"`
	Count      int       `json:"count,omitempty"`
	Constraint string    `json:"constraint,omitempty"`
	Relation   string    `json:"relation,omitempty"`
	Target     string    `json:"target,omitempty"`
	Targets    []string  `json:"targets,omitempty"`
	Message    string    `json:"message"`
}

// MissingRequiredField builds the error for a required spec with no contribution.
func MissingRequiredField(spec string) ValidationError {
	return ValidationError{
		Kind:    KindMissingRequiredField,
		Spec:    spec,
		Message: fmt.Sprintf("required field %q has no contribution", spec),
	}
}

// DuplicateUniqueField builds the error for a unique spec with count > 1 contributions.
func DuplicateUniqueField(spec string, count int) ValidationError {
	return ValidationError{
		Kind:    KindDuplicateUniqueField,
		Spec:    spec,
		Count:   count,
		Message: fmt.Sprintf("unique field %q has %d contributions", spec, count),
	}
}

// ConstraintViolation builds the error for the value at index failing a constraint.
func ConstraintViolation(spec string, index int, constraint string) ValidationError {
	return ValidationError{
		Kind:       KindConstraintViolation,
		Spec:       spec,
		Index:      index,
		Constraint: constraint,
		Message:    fmt.Sprintf("field %q value %d violates constraint: %s", spec, index, constraint),
	}
}

// UnknownField builds the error for a contribution name the model does not declare.
func UnknownField(name string) ValidationError {
	return ValidationError{
		Kind:    KindUnknownField,
		Spec:    name,
		Message: fmt.Sprintf("field %q is not declared in the model", name),
	}
}

// DependencyViolation builds the error for a Requires or Conflicts rule broken by target.
func DependencyViolation(subject, relation, target string) ValidationError {
	verb := relation
	if relation == "conflicts" {
		verb = "conflicts with"
	}
	return ValidationError{
		Kind:     KindDependencyViolation,
		Spec:     subject,
		Relation: relation,
		Target:   target,
		Message:  fmt.Sprintf("field %q %s field %q", subject, verb, target),
	}
}

// DependencySetViolation builds the error for a RequiresOneOf rule where no
// target is present.
func DependencySetViolation(subject, relation string, targets []string) ValidationError {
	return ValidationError{
		Kind:     KindDependencyViolation,
		Spec:     subject,
		Relation: relation,
		Targets:  slices.Clone(targets),
		Message:  fmt.Sprintf("field %q requires one of [%s]", subject, strings.Join(targets, ", ")),
	}
}

func (e ValidationError) String() string {
	return e.Message
}

// Equal compares two errors field by field.
func (e ValidationError) Equal(o ValidationError) bool {
	return e.Kind == o.Kind &&
		e.Spec == o.Spec &&
		e.Index == o.Index &&
		e.Count == o.Count &&
		e.Constraint == o.Constraint &&
		e.Relation == o.Relation &&
		e.Target == o.Target &&
		slices.Equal(e.Targets, o.Targets) &&
		e.Message == o.Message
}

// Report is the immutable outcome of validating one plugin against one model.
// Use ReportBuilder to assemble one.
type Report struct {
	plugin string
	model  string
	errors []ValidationError
}

// Plugin returns the name of the validated plugin.
func (r *Report) Plugin() string { return r.plugin }

// Model returns the name of the model the plugin was validated against.
func (r *Report) Model() string { return r.model }

// Errors returns a copy of the ordered error sequence.
func (r *Report) Errors() []ValidationError {
	out := make([]ValidationError, len(r.errors))
	for i, e := range r.errors {
		out[i] = e
		out[i].Targets = slices.Clone(e.Targets)
	}
	return out
}

// Len returns the number of errors.
func (r *Report) Len() int { return len(r.errors) }

// Valid returns true if there are no errors.
func (r *Report) Valid() bool {
	return len(r.errors) == 0
}

// ErrorsOf returns the errors of the given kind, in report order.
func (r *Report) ErrorsOf(kind ErrorKind) []ValidationError {
	var out []ValidationError
	for _, e := range r.errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Equal compares two reports field by field, including error order.
func (r *Report) Equal(o *Report) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.plugin == o.plugin &&
		r.model == o.model &&
		slices.EqualFunc(r.errors, o.errors, ValidationError.Equal)
}

// ToError converts the report to an *Error if invalid, nil if valid.
func (r *Report) ToError() error {
	if r.Valid() {
		return nil
	}

	msg := r.errors[0].Message
	if len(r.errors) > 1 {
		msg = fmt.Sprintf("plugin %q failed validation with %d errors", r.plugin, len(r.errors))
	}

	return NewError(ErrCodePluginInvalid, msg).
		WithDetails(map[string]any{
			"plugin":      r.plugin,
			"model":       r.model,
			"error_count": len(r.errors),
			"errors":      r.Errors(),
		})
}

// MarshalJSON renders the report for display layers.
func (r *Report) MarshalJSON() ([]byte, error) {
	errs := r.errors
	if errs == nil {
		errs = []ValidationError{}
	}
	return json.Marshal(struct {
		Plugin string            `json:"plugin"`
		Model  string            `json:"model"`
		Valid  bool              `json:"valid"`
		Errors []ValidationError `json:"errors"`
	}{r.plugin, r.model, r.Valid(), errs})
}

// ReportBuilder accumulates errors for a single validation run. It is not
// safe for concurrent use.
type ReportBuilder struct {
	plugin string
	model  string
	errors []ValidationError
}

// NewReportBuilder starts a report for the given plugin and model names.
func NewReportBuilder(plugin, model string) *ReportBuilder {
	return &ReportBuilder{plugin: plugin, model: model}
}

// Add appends errors in order.
func (b *ReportBuilder) Add(errs ...ValidationError) {
	b.errors = append(b.errors, errs...)
}

// Len returns the number of errors collected so far.
func (b *ReportBuilder) Len() int { return len(b.errors) }

// Build returns the finished report. The builder must not be reused.
func (b *ReportBuilder) Build() *Report {
	r := &Report{plugin: b.plugin, model: b.model, errors: b.errors}
	b.errors = nil
	return r
}
