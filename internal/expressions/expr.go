package expressions

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rendis/khimera/pkg/schema"
)

// ExprEngine implements the Engine interface using expr-lang/expr. It
// supports let bindings, array operations (filter, map, count, any, all),
// string operations, nil coalescing (??) and optional chaining (?.).
// Thread-safe: compiled *vm.Program objects are cached and reused across goroutines.
type ExprEngine struct {
	mu    sync.RWMutex
	cache map[string]*exprProgram
}

// NewExprEngine creates a new Expr expression engine.
func NewExprEngine() *ExprEngine {
	return &ExprEngine{
		cache: make(map[string]*exprProgram),
	}
}

// Name returns the engine identifier.
func (e *ExprEngine) Name() string {
	return "expr"
}

// Compile compiles (or retrieves from cache) an Expr predicate. The
// expression must produce a boolean.
func (e *ExprEngine) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeInvalidConstraint, "empty expr expression")
	}

	e.mu.RLock()
	if prg, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return prg, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock.
	if prg, ok := e.cache[expression]; ok {
		return prg, nil
	}

	compiled, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"expr compile error in %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	prg := &exprProgram{source: expression, program: compiled}
	e.cache[expression] = prg
	return prg, nil
}

type exprProgram struct {
	source  string
	program *vm.Program
}

func (p *exprProgram) Eval(value any) (any, error) {
	out, err := expr.Run(p.program, map[string]any{"value": value})
	if err != nil {
		return nil, fmt.Errorf("expr evaluation failed for %q: %w", p.source, err)
	}
	return out, nil
}

var _ Engine = (*ExprEngine)(nil)
