package spec

import (
	"testing"

	"github.com/rendis/khimera/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Metadata(t *testing.T) {
	raw := map[string]any{"anything": 1}
	got, err := Decode(KindMetadata, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecode_Command(t *testing.T) {
	got, err := Decode(KindCommand, map[string]any{"name": "migrate", "group": "db"})
	require.NoError(t, err)
	assert.Equal(t, Command{Name: "migrate", Group: "db"}, got)
}

func TestDecode_Shorthand(t *testing.T) {
	cmd, err := Decode(KindCommand, "version")
	require.NoError(t, err)
	assert.Equal(t, Command{Name: "version"}, cmd)

	asset, err := Decode(KindAsset, "data/in.txt")
	require.NoError(t, err)
	assert.Equal(t, Asset{Path: "data/in.txt"}, asset)
}

func TestDecode_HookWithSignature(t *testing.T) {
	got, err := Decode(KindHook, map[string]any{
		"name":  "on_setup",
		"event": "setup",
		"signature": map[string]any{
			"in":  []any{"context.Context"},
			"out": []any{"error"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Hook{
		Name:      "on_setup",
		Event:     "setup",
		Signature: &Signature{In: []string{"context.Context"}, Out: []string{"error"}},
	}, got)
}

func TestDecode_AlreadyTyped(t *testing.T) {
	in := &APIExtension{Name: "f", Func: func() {}}
	got, err := Decode(KindAPIExtension, in)
	require.NoError(t, err)
	assert.Same(t, in, got)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(KindAsset, map[string]any{"path": "a.txt", "size": 3})
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor, "unused keys are rejected")

	_, err = Decode(KindAsset, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)

	_, err = Decode(KindCommand, 42)
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)

	_, err = Decode(Kind("plugin"), map[string]any{})
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k.String())
	}
	assert.False(t, Kind("plugin").Valid())
}
