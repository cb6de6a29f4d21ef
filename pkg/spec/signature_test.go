package spec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureOf(t *testing.T) {
	sig, ok := SignatureOf(func(ctx context.Context, name string) (int, error) { return 0, nil })
	require.True(t, ok)
	assert.Equal(t, []string{"context.Context", "string"}, sig.In)
	assert.Equal(t, []string{"int", "error"}, sig.Out)
	assert.False(t, sig.Variadic)
	assert.Equal(t, "func(context.Context, string) (int, error)", sig.String())

	variadic, ok := SignatureOf(func(format string, args ...any) {})
	require.True(t, ok)
	assert.True(t, variadic.Variadic)
	assert.Equal(t, []string{"string", "[]interface {}"}, variadic.In)
	assert.Equal(t, "func(string, ...interface {})", variadic.String())
}

func TestSignatureOf_NotAFunc(t *testing.T) {
	_, ok := SignatureOf(nil)
	assert.False(t, ok)

	_, ok = SignatureOf("func")
	assert.False(t, ok)

	var fn func()
	_, ok = SignatureOf(fn)
	assert.False(t, ok)
}

func TestSignatureRule_Match(t *testing.T) {
	sig := Signature{In: []string{"string"}, Out: []string{"error"}}

	var nilRule *SignatureRule
	assert.True(t, nilRule.Match(sig))
	assert.True(t, (&SignatureRule{}).Match(sig), "nil sides are unconstrained")
	assert.True(t, (&SignatureRule{In: []string{AnyType}}).Match(sig))
	assert.False(t, (&SignatureRule{In: []string{}}).Match(sig), "empty In fixes arity at zero")
	assert.False(t, (&SignatureRule{Out: []string{"bool"}}).Match(sig))

	variadic := Signature{In: []string{"[]string"}, Variadic: true}
	assert.False(t, (&SignatureRule{}).Match(variadic))
	assert.True(t, (&SignatureRule{AllowVariadic: true}).Match(variadic))
}

func TestSignatureRule_String(t *testing.T) {
	var nilRule *SignatureRule
	assert.Equal(t, "any signature", nilRule.String())
	assert.Equal(t, "func(string, any) (...)", (&SignatureRule{In: []string{"string", "any"}}).String())
}
