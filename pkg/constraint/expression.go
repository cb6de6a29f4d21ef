package constraint

import (
	"sync"

	"github.com/rendis/khimera/internal/expressions"
)

var (
	exprEngine = expressions.NewExprEngine()
	jqEngine   = expressions.NewGoJQEngine()
	celEngine  = sync.OnceValues(expressions.NewCELEngine)
)

// Expr passes values for which the expr-lang predicate src evaluates to true.
// The value is bound as "value" in its JSON form, so struct fields are
// addressed by their json names (value.group, value.path).
func Expr(src string) (Constraint, error) {
	prg, err := exprEngine.Compile(src)
	if err != nil {
		return nil, err
	}
	return programRule("satisfies expr "+src, prg, isTrue), nil
}

// CEL passes values for which the CEL predicate src evaluates to true. The
// value is bound as the dyn variable "value" in its JSON form.
func CEL(src string) (Constraint, error) {
	engine, err := celEngine()
	if err != nil {
		return nil, err
	}
	prg, err := engine.Compile(src)
	if err != nil {
		return nil, err
	}
	return programRule("satisfies cel "+src, prg, isTrue), nil
}

// JQ passes values for which the first output of the jq query src is
// neither false nor null. A query without output fails.
func JQ(src string) (Constraint, error) {
	prg, err := jqEngine.Compile(src)
	if err != nil {
		return nil, err
	}
	return programRule("satisfies jq "+src, prg, expressions.Truthy), nil
}

// MustExpr is like Expr but panics on a compile error.
func MustExpr(src string) Constraint { return must(Expr(src)) }

// MustCEL is like CEL but panics on a compile error.
func MustCEL(src string) Constraint { return must(CEL(src)) }

// MustJQ is like JQ but panics on a compile error.
func MustJQ(src string) Constraint { return must(JQ(src)) }

func programRule(desc string, prg expressions.Program, pass func(any) bool) Constraint {
	return rule{
		desc: desc,
		check: func(v any) bool {
			doc, err := expressions.Normalize(v)
			if err != nil {
				return false
			}
			out, err := prg.Eval(doc)
			if err != nil {
				return false
			}
			return pass(out)
		},
	}
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func must(c Constraint, err error) Constraint {
	if err != nil {
		panic(err)
	}
	return c
}
