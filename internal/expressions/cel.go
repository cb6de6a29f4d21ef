package expressions

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/rendis/khimera/pkg/schema"
)

// CELEngine implements the Engine interface using Google's Common Expression Language.
// Thread-safe: compiled programs are cached and reused across goroutines.
type CELEngine struct {
	env *cel.Env

	mu    sync.RWMutex
	cache map[string]*celProgram
}

// NewCELEngine creates a new CEL expression engine with a sandboxed environment
// exposing a single dyn variable, value.
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("value", cel.DynType),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &CELEngine{
		env:   env,
		cache: make(map[string]*celProgram),
	}, nil
}

// Name returns the engine identifier.
func (e *CELEngine) Name() string {
	return "cel"
}

// Compile compiles (or retrieves from cache) a CEL predicate. Expressions whose
// static output type is neither bool nor dyn are rejected.
func (e *CELEngine) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeInvalidConstraint, "empty CEL expression")
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

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"CEL compile error in %q: %s", expression, issues.Err().Error()).
			WithCause(issues.Err()).
			WithDetails(map[string]any{"expression": expression})
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"CEL expression %q must produce bool, got %s", expression, out.String()).
			WithDetails(map[string]any{"expression": expression})
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"CEL program error for %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	prg := &celProgram{source: expression, program: program}
	e.cache[expression] = prg
	return prg, nil
}

type celProgram struct {
	source  string
	program cel.Program
}

func (p *celProgram) Eval(value any) (any, error) {
	out, _, err := p.program.Eval(map[string]any{"value": value})
	if err != nil {
		return nil, fmt.Errorf("CEL evaluation failed for %q: %w", p.source, err)
	}
	return out.Value(), nil
}

var _ Engine = (*CELEngine)(nil)
