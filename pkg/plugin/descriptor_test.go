package plugin

import (
	"testing"

	"github.com/rendis/khimera/pkg/schema"
	"github.com/rendis/khimera/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvTools = `
name: csv-tools
version: 0.3.0
contributions:
  zeta: 1
  author: Jane Doe
  commands:
    - {name: convert, group: csv}
    - stats
  on_setup:
    name: prepare
    event: setup
  input_file: data/in.txt
  alpha: [1, 2]
`

// --- ParseDescriptor ---

func TestParseDescriptor_KeepsOrder(t *testing.T) {
	d, err := ParseDescriptor([]byte(csvTools))
	require.NoError(t, err)
	assert.Equal(t, "csv-tools", d.Name)
	assert.Equal(t, "0.3.0", d.Version)

	names := make([]string, len(d.Contributions))
	for i, c := range d.Contributions {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"zeta", "author", "commands", "on_setup", "input_file", "alpha"}, names)

	assert.Equal(t, []any{1}, d.Contributions[0].Values)
	assert.Len(t, d.Contributions[2].Values, 2)
	assert.Equal(t, []any{1, 2}, d.Contributions[5].Values)
}

func TestParseDescriptor_JSON(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"name": "p", "contributions": {"b": "x", "a": ["y", "z"]}}`))
	require.NoError(t, err)
	require.Len(t, d.Contributions, 2)
	assert.Equal(t, "b", d.Contributions[0].Name)
	assert.Equal(t, []any{"y", "z"}, d.Contributions[1].Values)
}

func TestParseDescriptor_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "name: [unclosed"},
		{"no name", "version: 1\ncontributions: {a: 1}"},
		{"contributions not a mapping", "name: p\ncontributions: [a, b]"},
		{"duplicate contribution", "name: p\ncontributions:\n  a: 1\n  a: 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptor([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)
		})
	}
}

// --- FromDescriptor ---

func TestFromDescriptor_DecodesDeclaredKinds(t *testing.T) {
	m := testModel(t)
	d, err := ParseDescriptor([]byte(csvTools))
	require.NoError(t, err)

	p, err := FromDescriptor(d, m)
	require.NoError(t, err)
	assert.Same(t, m, p.Model())
	assert.Equal(t, []string{"zeta", "author", "commands", "on_setup", "input_file", "alpha"}, p.Names())

	assert.Equal(t, []any{"Jane Doe"}, p.Get("author"))
	assert.Equal(t, []any{
		spec.Command{Name: "convert", Group: "csv"},
		spec.Command{Name: "stats"},
	}, p.Get("commands"))
	assert.Equal(t, []any{spec.Hook{Name: "prepare", Event: "setup"}}, p.Get("on_setup"))
	assert.Equal(t, []any{spec.Asset{Path: "data/in.txt"}}, p.Get("input_file"))
	assert.Equal(t, []any{1, 2}, p.Get("alpha"), "undeclared names keep raw values")
}

func TestFromDescriptor_KeepsUndecodableValues(t *testing.T) {
	m := testModel(t)
	d := &Descriptor{Name: "p", Contributions: Contributions{
		{Name: "commands", Values: []any{42}},
	}}

	p, err := FromDescriptor(d, m)
	require.NoError(t, err)
	assert.Equal(t, []any{42}, p.Get("commands"))
}

func TestFromDescriptor_Unbound(t *testing.T) {
	d := &Descriptor{Name: "p", Contributions: Contributions{{Name: "commands", Values: []any{"run"}}}}
	p, err := FromDescriptor(d, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"run"}, p.Get("commands"))
}

func TestFromDescriptor_Errors(t *testing.T) {
	_, err := FromDescriptor(nil, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)

	_, err = FromDescriptor(&Descriptor{}, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidDescriptor)
}
