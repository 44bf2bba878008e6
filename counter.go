package attrmap

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// NewCounter returns a Counter holding pairs in order. Missing keys read
// as zero and are only stored once written, e.g. through Add.
//
// Pairs are stored like New stores them: a repeated key keeps its last
// value. Use Tally to count occurrences.
func NewCounter(pairs ...Pair) *Map {
	return mustFill(&Map{kind: KindCounter}, pairs)
}

// Add adds delta to the integer stored under key and stores the result as
// an int. Integral floats and json.Number values are accepted as counts.
// The current value is read with Get, so on a Counter or an int-producing
// DefaultMap a missing key starts at zero and is materialized.
func (m *Map) Add(key any, delta int) (int, error) {
	v, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("attrmap: cannot add to %T value under key %#v", v, key)
	}
	n += delta
	return n, m.Set(key, n)
}

// AddAttr is Add through the attribute surface: a missing name on an
// AttrMap yields an *AttributeError.
func (m *Map) AddAttr(name string, delta int) (int, error) {
	v, err := m.GetAttr(name)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("attrmap: cannot add to %T attribute %s", v, name)
	}
	n += delta
	return n, m.SetAttr(name, n)
}

// Tally adds one to the count of every key, in order.
func (m *Map) Tally(keys ...any) error {
	for _, k := range keys {
		if _, err := m.Add(k, 1); err != nil {
			return err
		}
	}
	return nil
}

// Subtract subtracts the integer value of every pair from the count stored
// under its key. Counts may become zero or negative.
func (m *Map) Subtract(pairs ...Pair) error {
	for _, p := range pairs {
		n, ok := toInt(p.Value)
		if !ok {
			return fmt.Errorf("attrmap: cannot subtract %T value under key %#v", p.Value, p.Key)
		}
		if _, err := m.Add(p.Key, -n); err != nil {
			return err
		}
	}
	return nil
}

// MostCommon returns the n entries with the highest counts, highest first.
// Entries with equal counts keep their insertion order. A negative n returns
// every entry and zero returns none.
func (m *Map) MostCommon(n int) []Pair {
	if n == 0 {
		return []Pair{}
	}
	items := m.Items()
	slices.SortStableFunc(items, func(a, b Pair) int {
		x, _ := toInt(a.Value)
		y, _ := toInt(b.Value)
		return cmp.Compare(y, x)
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

// Elements returns every key repeated as many times as its count. Keys
// with a count below one are skipped.
func (m *Map) Elements() []any {
	var out []any
	for k, v := range m.All() {
		n, _ := toInt(v)
		for range n {
			out = append(out, k)
		}
	}
	return out
}

// Total returns the sum of all counts.
func (m *Map) Total() int {
	total := 0
	for _, v := range m.All() {
		n, _ := toInt(v)
		total += n
	}
	return total
}

// toInt converts a count to int. Floats and json.Number values count when
// they are integral, which is how JSON documents carry counts.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), int64(int(n)) == n
	case uint:
		return int(n), n <= math.MaxInt
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), uint64(n) <= math.MaxInt
	case uint64:
		return int(n), n <= math.MaxInt
	case uintptr:
		return int(n), uint64(n) <= math.MaxInt
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return toInt(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
