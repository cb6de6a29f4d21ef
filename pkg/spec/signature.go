package spec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rendis/khimera/pkg/schema"
)

// AnyType matches every type name in a SignatureRule.
const AnyType = "any"

// Signature is the declared call shape of a callable: parameter and result
// type names in order. For a variadic callable the last In entry is the
// slice type ("[]string").
type Signature struct {
	In       []string `json:"in,omitempty" mapstructure:"in"`
	Out      []string `json:"out,omitempty" mapstructure:"out"`
	Variadic bool     `json:"variadic,omitempty" mapstructure:"variadic"`
}

// SignatureOf derives a Signature from a Go func. Type names come from
// reflect.Type.String. It returns false when fn is not a non-nil func.
func SignatureOf(fn any) (Signature, bool) {
	if fn == nil {
		return Signature{}, false
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func || reflect.ValueOf(fn).IsNil() {
		return Signature{}, false
	}

	sig := Signature{
		In:       make([]string, t.NumIn()),
		Out:      make([]string, t.NumOut()),
		Variadic: t.IsVariadic(),
	}
	for i := range t.NumIn() {
		sig.In[i] = t.In(i).String()
	}
	for i := range t.NumOut() {
		sig.Out[i] = t.Out(i).String()
	}
	return sig, true
}

func (s Signature) String() string {
	in := s.In
	if s.Variadic && len(in) > 0 {
		in = append(in[:len(in)-1:len(in)-1], "..."+strings.TrimPrefix(in[len(in)-1], "[]"))
	}
	out := strings.Join(s.Out, ", ")
	if len(s.Out) > 1 {
		out = "(" + out + ")"
	}
	return strings.TrimSpace(fmt.Sprintf("func(%s) %s", strings.Join(in, ", "), out))
}

// SignatureRule constrains a Signature. A nil In or Out leaves that side
// unconstrained; a non-nil one fixes the arity, and each entry is a type
// name or AnyType.
type SignatureRule struct {
	In            []string `json:"in,omitempty"`
	Out           []string `json:"out,omitempty"`
	AllowVariadic bool     `json:"allow_variadic,omitempty"`
}

// Match reports whether s satisfies the rule. A nil rule matches everything.
func (r *SignatureRule) Match(s Signature) bool {
	if r == nil {
		return true
	}
	if s.Variadic && !r.AllowVariadic {
		return false
	}
	return matchTypes(r.In, s.In) && matchTypes(r.Out, s.Out)
}

func (r *SignatureRule) String() string {
	if r == nil {
		return "any signature"
	}
	side := func(names []string) string {
		if names == nil {
			return "..."
		}
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("func(%s) (%s)", side(r.In), side(r.Out))
}

func (r *SignatureRule) check() error {
	if r == nil {
		return nil
	}
	for _, names := range [][]string{r.In, r.Out} {
		for i, n := range names {
			if strings.TrimSpace(n) == "" {
				return schema.NewErrorf(schema.ErrCodeInvalidSpecDefinition,
					"signature rule has an empty type name at position %d", i)
			}
		}
	}
	return nil
}

func (r *SignatureRule) clone() *SignatureRule {
	if r == nil {
		return nil
	}
	return &SignatureRule{In: cloneNames(r.In), Out: cloneNames(r.Out), AllowVariadic: r.AllowVariadic}
}

func matchTypes(want, got []string) bool {
	if want == nil {
		return true
	}
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != AnyType && want[i] != got[i] {
			return false
		}
	}
	return true
}

// cloneNames copies names while keeping the nil/empty distinction.
func cloneNames(names []string) []string {
	if names == nil {
		return nil
	}
	return append(make([]string, 0, len(names)), names...)
}
