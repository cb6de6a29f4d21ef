package expressions

import (
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
	"github.com/rendis/khimera/pkg/schema"
)

// GoJQEngine implements the Engine interface using GoJQ. Queries run with the
// candidate value as input document.
// Thread-safe: compiled *gojq.Code objects are cached and reused across goroutines.
type GoJQEngine struct {
	mu    sync.RWMutex
	cache map[string]*jqProgram
}

// NewGoJQEngine creates a new GoJQ expression engine.
func NewGoJQEngine() *GoJQEngine {
	return &GoJQEngine{
		cache: make(map[string]*jqProgram),
	}
}

// Name returns the engine identifier.
func (e *GoJQEngine) Name() string {
	return "jq"
}

// Compile parses and compiles (or retrieves from cache) a jq query.
func (e *GoJQEngine) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeInvalidConstraint, "empty jq expression")
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

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"jq parse error in %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	code, err := gojq.Compile(query,
		// Sandbox: return empty env to block $ENV and env access.
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidConstraint,
			"jq compile error in %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	prg := &jqProgram{source: expression, code: code}
	e.cache[expression] = prg
	return prg, nil
}

type jqProgram struct {
	source string
	code   *gojq.Code
}

// Eval returns the first output of the query, or nil when it produces none.
// The value must already be in the JSON data model (see Normalize).
func (p *jqProgram) Eval(value any) (any, error) {
	iter := p.code.Run(value)
	val, ok := iter.Next()
	if !ok {
		return nil, nil
	}
	if err, isErr := val.(error); isErr {
		return nil, fmt.Errorf("jq evaluation failed for %q: %w", p.source, err)
	}
	return val, nil
}

var _ Engine = (*GoJQEngine)(nil)
