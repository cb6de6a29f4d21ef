package constraint

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/rendis/khimera/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Built-ins ---

func TestKind(t *testing.T) {
	c := Kind(reflect.String, reflect.Int)
	assert.True(t, c.Check("x"))
	assert.True(t, c.Check(3))
	assert.False(t, c.Check(3.5))
	assert.False(t, c.Check(nil))
	assert.Equal(t, "kind is one of [string, int]", c.Describe())
}

func TestIs(t *testing.T) {
	c := Is[string]()
	assert.True(t, c.Check("hello"))
	assert.False(t, c.Check(1))
	assert.Equal(t, "is of type string", c.Describe())

	e := Is[error]()
	assert.True(t, e.Check(schema.NewError("X", "y")))
	assert.False(t, e.Check("not an error"))
}

func TestOneOf(t *testing.T) {
	c := OneOf("setup", "run")
	assert.True(t, c.Check("run"))
	assert.False(t, c.Check("teardown"))
	assert.False(t, c.Check(1))
	assert.Equal(t, "one of [setup, run]", c.Describe())
}

func TestRange(t *testing.T) {
	c := Range(1, 10)
	assert.True(t, c.Check(1))
	assert.True(t, c.Check(int64(10)))
	assert.True(t, c.Check(uint8(5)))
	assert.True(t, c.Check(2.5))
	assert.True(t, c.Check(json.Number("7")))
	assert.False(t, c.Check(0))
	assert.False(t, c.Check(10.1))
	assert.False(t, c.Check("5"))
	assert.False(t, c.Check(json.Number("nope")))
	assert.Equal(t, "number in [1, 10]", c.Describe())
}

func TestLength(t *testing.T) {
	c := Length(1, 3)
	assert.True(t, c.Check("abc"))
	assert.True(t, c.Check("ñññ"), "runes, not bytes")
	assert.False(t, c.Check("abcd"))
	assert.False(t, c.Check(""))
	assert.True(t, c.Check([]int{1}))
	assert.True(t, c.Check(map[string]int{"a": 1, "b": 2}))
	assert.False(t, c.Check(42))
	assert.Equal(t, "length in [1, 3]", c.Describe())

	open := Length(2, -1)
	assert.True(t, open.Check("a very long string"))
	assert.False(t, open.Check("a"))
	assert.Equal(t, "length >= 2", open.Describe())
}

func TestPattern(t *testing.T) {
	c, err := Pattern(`\.txt$`)
	require.NoError(t, err)
	assert.True(t, c.Check("notes.txt"))
	assert.False(t, c.Check("notes.md"))
	assert.False(t, c.Check(7))
	assert.Equal(t, `matches pattern \.txt$`, c.Describe())

	_, err = Pattern(`([`)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidConstraint)

	assert.Panics(t, func() { MustPattern(`([`) })
}

func TestSemver(t *testing.T) {
	c := Semver()
	assert.True(t, c.Check("1.2.3"))
	assert.True(t, c.Check("v0.1.0-beta.1+build.5"))
	assert.False(t, c.Check("1.2"))
	assert.False(t, c.Check(123))
}

func TestPredicate(t *testing.T) {
	c := Predicate("is even", func(v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	})
	assert.True(t, c.Check(4))
	assert.False(t, c.Check(3))
	assert.Equal(t, "is even", c.Describe())

	assert.False(t, Predicate("nil fn", nil).Check(1))
}

func TestAll(t *testing.T) {
	c := All(Is[string](), Length(1, 5), nil)
	assert.True(t, c.Check("abc"))
	assert.False(t, c.Check("abcdef"))
	assert.False(t, c.Check(1))
	assert.Equal(t, "is of type string and length in [1, 5]", c.Describe())

	empty := All()
	assert.True(t, empty.Check(nil))
	assert.Equal(t, "always", empty.Describe())
}

// --- Formats ---

func TestUUID(t *testing.T) {
	c := UUID()
	assert.True(t, c.Check("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.False(t, c.Check("not-a-uuid"))
	assert.False(t, c.Check(1))
}

func TestCronSpec(t *testing.T) {
	c := CronSpec()
	assert.True(t, c.Check("*/5 * * * *"))
	assert.True(t, c.Check("@daily"))
	assert.True(t, c.Check("@every 5m"))
	assert.False(t, c.Check("every day"))
	assert.False(t, c.Check("* * *"))
	assert.False(t, c.Check(nil))
}
