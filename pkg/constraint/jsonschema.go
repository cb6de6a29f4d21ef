package constraint

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rendis/khimera/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache memoises compiled schemas by their raw text.
var schemaCache = struct {
	mu    sync.RWMutex
	byDoc map[string]*jsonschema.Schema
}{byDoc: make(map[string]*jsonschema.Schema)}

// JSONSchema passes values whose JSON form validates against the JSON Schema
// (draft 2020-12 unless the document says otherwise) in raw.
func JSONSchema(raw []byte) (Constraint, error) {
	compiled, err := compileSchema(raw)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeInvalidConstraint, "invalid JSON schema").WithCause(err)
	}

	desc := "matches JSON schema"
	var meta struct {
		Title string `json:"title"`
	}
	if json.Unmarshal(raw, &meta) == nil && meta.Title != "" {
		desc = fmt.Sprintf("matches JSON schema %q", meta.Title)
	}

	return rule{
		desc: desc,
		check: func(v any) bool {
			doc, err := toJSONValue(v)
			if err != nil {
				return false
			}
			return compiled.Validate(doc) == nil
		},
	}, nil
}

// MustJSONSchema is like JSONSchema but panics on an invalid document.
func MustJSONSchema(raw []byte) Constraint { return must(JSONSchema(raw)) }

// compileSchema returns a cached compiled schema or compiles and caches a new one.
func compileSchema(raw []byte) (*jsonschema.Schema, error) {
	key := string(raw)

	schemaCache.mu.RLock()
	if cached, ok := schemaCache.byDoc[key]; ok {
		schemaCache.mu.RUnlock()
		return cached, nil
	}
	schemaCache.mu.RUnlock()

	schemaCache.mu.Lock()
	defer schemaCache.mu.Unlock()

	// Double-check after acquiring write lock.
	if cached, ok := schemaCache.byDoc[key]; ok {
		return cached, nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(key))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	// Each schema gets a unique URL and a fresh compiler to avoid resource collision.
	url := fmt.Sprintf("khimera://constraint-schema/%d", len(schemaCache.byDoc))
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	schemaCache.byDoc[key] = compiled
	return compiled, nil
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}
