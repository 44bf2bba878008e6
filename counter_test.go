package attrmap_test

import (
	"encoding/json"
	"math"
	"testing"

	attrmap "github.com/KimNorgaard/go-attrmap"
	"github.com/stretchr/testify/require"
)

func TestCounter_AttributeIncrement(t *testing.T) {
	c := attrmap.NewCounter()
	v, err := c.GetAttr("x")
	require.NoError(t, err)
	require.Equal(t, 0, v)
	v, err = c.GetAttr("y")
	require.NoError(t, err)
	require.Equal(t, 0, v)
	require.Equal(t, 0, c.Len(), "reads must not create entries")

	for _, step := range []struct {
		name  string
		delta int
	}{{"x", 1}, {"y", 2}, {"z", 3}} {
		_, err := c.AddAttr(step.name, step.delta)
		require.NoError(t, err)
	}
	require.True(t, c.Equal(attrmap.New(
		attrmap.Pair{Key: "x", Value: 1},
		attrmap.Pair{Key: "y", Value: 2},
		attrmap.Pair{Key: "z", Value: 3},
	)))
}

func TestCounter_ItemIncrement(t *testing.T) {
	c := attrmap.NewCounter()
	v, err := c.Get("x")
	require.NoError(t, err)
	require.Equal(t, 0, v)
	require.False(t, c.Has("x"))

	n, err := c.Add("x", 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, c.Has("x"))
	v, err = c.Get("x")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = c.Add("x", 4)
	require.NoError(t, err)
	v, _ = c.Get("x")
	require.Equal(t, 5, v)
}

func TestCounter_Queries(t *testing.T) {
	c := attrmap.NewCounter()
	require.NoError(t, c.Tally("b", "a", "c", "a", "b", "a", "d"))
	require.Equal(t, []any{"b", "a", "c", "d"}, c.Keys())
	require.Equal(t, 7, c.Total())

	require.Equal(t, []attrmap.Pair{{Key: "a", Value: 3}, {Key: "b", Value: 2}}, c.MostCommon(2))
	// Ties keep insertion order.
	require.Equal(t, []attrmap.Pair{
		{Key: "a", Value: 3}, {Key: "b", Value: 2}, {Key: "c", Value: 1}, {Key: "d", Value: 1},
	}, c.MostCommon(-1))
	require.Empty(t, c.MostCommon(0))

	require.Equal(t, []any{"b", "b", "a", "a", "a", "c", "d"}, c.Elements())

	require.NoError(t, c.Subtract(attrmap.Pair{Key: "a", Value: 1}, attrmap.Pair{Key: "e", Value: 2}))
	v, _ := c.Get("a")
	require.Equal(t, 2, v)
	v, _ = c.Get("e")
	require.Equal(t, -2, v)
	require.NotContains(t, c.Elements(), "e")

	require.Error(t, c.Subtract(attrmap.Pair{Key: "a", Value: "one"}))
}

func TestCounter_ConstructorKeepsLastValue(t *testing.T) {
	c := attrmap.NewCounter(attrmap.Pair{Key: "a", Value: 1}, attrmap.Pair{Key: "a", Value: 4})
	v, err := c.Get("a")
	require.NoError(t, err)
	require.Equal(t, 4, v)
	require.Equal(t, 1, c.Len())
}

func TestCounter_AddNonInteger(t *testing.T) {
	c := attrmap.NewCounter(attrmap.Pair{Key: "name", Value: "text"})
	_, err := c.Add("name", 1)
	require.EqualError(t, err, `attrmap: cannot add to string value under key "name"`)
}

func TestAdd_StrictMapRequiresKey(t *testing.T) {
	m := attrmap.New()
	_, err := m.Add("x", 1)
	require.ErrorIs(t, err, attrmap.ErrKeyNotFound)
	_, err = m.AddAttr("x", 1)
	require.ErrorIs(t, err, attrmap.ErrAttributeNotFound)
	require.Equal(t, 0, m.Len())
}

func TestCounter_JSONCounts(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		v, err := attrmap.LoadJSON([]byte(`{"a": 2, "b": 5}`), attrmap.WithConstructor(attrmap.NewCounter))
		require.NoError(t, err)
		c := v.(*attrmap.Map)
		require.Equal(t, 7, c.Total())

		n, err := c.Add("a", 1)
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, 8, c.Total())
		require.Len(t, c.Elements(), 8)
		require.Equal(t, []attrmap.Pair{{Key: "b", Value: 5.0}}, c.MostCommon(1))
	})

	t.Run("json.Number", func(t *testing.T) {
		v, err := attrmap.LoadJSON([]byte(`{"a": 2, "b": 5}`), attrmap.WithConstructor(attrmap.NewCounter), attrmap.UseNumber())
		require.NoError(t, err)
		c := v.(*attrmap.Map)
		require.Equal(t, 7, c.Total())
		require.NoError(t, c.Subtract(attrmap.Pair{Key: "b", Value: json.Number("4")}))
		require.Equal(t, []any{"a", "a", "b"}, c.Elements())
	})

	t.Run("non-integral", func(t *testing.T) {
		v, err := attrmap.LoadJSON([]byte(`{"a": 2.5}`), attrmap.WithConstructor(attrmap.NewCounter))
		require.NoError(t, err)
		_, err = v.(*attrmap.Map).Add("a", 1)
		require.EqualError(t, err, `attrmap: cannot add to float64 value under key "a"`)
	})
}

func TestCounter_UnsignedCounts(t *testing.T) {
	c := attrmap.NewCounter(
		attrmap.Pair{Key: "a", Value: uint(2)},
		attrmap.Pair{Key: "b", Value: uint64(3)},
	)
	require.Equal(t, 5, c.Total())

	c = attrmap.NewCounter(attrmap.Pair{Key: "big", Value: uint64(math.MaxUint64)})
	_, err := c.Add("big", 1)
	require.Error(t, err)
}
