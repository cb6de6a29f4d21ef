package expressions

import (
	"encoding/json"
	"fmt"
)

// Engine compiles expressions into programs evaluated against one value.
// Three implementations: Expr (logic), CEL (typed conditions), GoJQ (queries).
type Engine interface {
	Name() string
	Compile(expression string) (Program, error)
}

// Program is a compiled expression. The candidate value is bound as the
// variable "value" (Expr, CEL) or used as the input document (jq).
// Programs are immutable and safe for concurrent use.
type Program interface {
	Eval(value any) (any, error)
}

// Normalize converts a Go value into its JSON data model: structs follow
// their json tags, numbers become float64, slices become []any and maps
// become map[string]any. Values that cannot be encoded (funcs, channels)
// produce an error.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64:
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}

// Truthy reports whether an evaluation result counts as a pass: true booleans,
// and for jq-style results anything other than false and null.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	default:
		return true
	}
}
