package constraint

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rendis/khimera/pkg/schema"
)

var semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// Kind passes values whose reflect.Kind is one of kinds. A nil value has
// kind reflect.Invalid.
func Kind(kinds ...reflect.Kind) Constraint {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return rule{
		desc: "kind is one of [" + strings.Join(names, ", ") + "]",
		check: func(v any) bool {
			return slices.Contains(kinds, reflect.ValueOf(v).Kind())
		},
	}
}

// Is passes values that hold a T (or implement T when T is an interface).
func Is[T any]() Constraint {
	return rule{
		desc: "is of type " + reflect.TypeFor[T]().String(),
		check: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	}
}

// OneOf passes values equal to one of the allowed values.
func OneOf[T comparable](allowed ...T) Constraint {
	set := make(map[T]struct{}, len(allowed))
	names := make([]string, len(allowed))
	for i, a := range allowed {
		set[a] = struct{}{}
		names[i] = fmt.Sprint(a)
	}
	return rule{
		desc: "one of [" + strings.Join(names, ", ") + "]",
		check: func(v any) bool {
			t, ok := v.(T)
			if !ok {
				return false
			}
			_, found := set[t]
			return found
		},
	}
}

// Range passes numeric values within [min, max]. Every Go integer and float
// type is accepted, as is json.Number.
func Range(min, max float64) Constraint {
	return rule{
		desc: fmt.Sprintf("number in [%g, %g]", min, max),
		check: func(v any) bool {
			f, ok := toFloat(v)
			return ok && f >= min && f <= max
		},
	}
}

// Length passes strings (counted in runes), slices, arrays and maps whose
// length is at least min and, when max >= 0, at most max.
func Length(min, max int) Constraint {
	desc := fmt.Sprintf("length in [%d, %d]", min, max)
	if max < 0 {
		desc = fmt.Sprintf("length >= %d", min)
	}
	return rule{
		desc: desc,
		check: func(v any) bool {
			n, ok := lengthOf(v)
			return ok && n >= min && (max < 0 || n <= max)
		},
	}
}

// Pattern passes strings matching the regular expression expr.
func Pattern(expr string) (Constraint, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"invalid pattern %q: %s", expr, err.Error()).WithCause(err)
	}
	return patternRule("matches pattern "+expr, re), nil
}

// MustPattern is like Pattern but panics on an invalid expression. Intended
// for package-level host models.
func MustPattern(expr string) Constraint {
	c, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// Semver passes strings that are semantic versions, with an optional "v" prefix.
func Semver() Constraint {
	return patternRule("is a semantic version", semverRegex)
}

func patternRule(desc string, re *regexp.Regexp) Constraint {
	return rule{
		desc: desc,
		check: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
	}
}

func toFloat(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func lengthOf(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}
