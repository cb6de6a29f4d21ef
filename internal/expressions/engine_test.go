package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Skip  func() `json:"-"`
}

func TestNormalize_Scalars(t *testing.T) {
	for _, v := range []any{nil, true, "x", 1.5} {
		out, err := Normalize(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}

	out, err := Normalize(42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, out)
}

func TestNormalize_StructFollowsJSONTags(t *testing.T) {
	out, err := Normalize(taggedValue{Name: "cmd", Count: 2, Skip: func() {}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "cmd", "count": 2.0}, out)
}

func TestNormalize_Collections(t *testing.T) {
	out, err := Normalize([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	out, err = Normalize(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, out)
}

func TestNormalize_UnencodableValue(t *testing.T) {
	_, err := Normalize(func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize value")
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(0.0))
	assert.True(t, Truthy(""))
	assert.True(t, Truthy(map[string]any{}))
}
