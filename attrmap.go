package attrmap

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the dynamic type of a Map. It selects the missing-key policy and
// the set of names excluded from attribute aliasing.
type Kind uint8

const (
	// KindAttr reports missing keys as errors.
	KindAttr Kind = iota
	// KindCounter reads missing keys as zero without storing them.
	KindCounter
	// KindDefault stores and returns the factory's result for missing keys.
	KindDefault
	// KindTree is KindDefault with a factory that builds a new Tree.
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindAttr:
		return "AttrMap"
	case KindCounter:
		return "Counter"
	case KindDefault:
		return "DefaultMap"
	case KindTree:
		return "Tree"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// A Pair is a single entry of a Map.
type Pair struct {
	Key   any
	Value any
}

// A Factory produces the value stored for a missing key.
type Factory func() any

// A Constructor builds a Map from entries given in order. New, NewCounter
// and NewTree are Constructors.
type Constructor func(pairs ...Pair) *Map

// Map is an insertion-ordered mapping whose entries can also be reached
// through attribute-style accessors. The zero value is an empty AttrMap
// ready to use.
//
// A Map is not safe for concurrent use.
type Map struct {
	entries  *orderedmap.OrderedMap[any, any]
	kind     Kind
	factory  Factory
	excluded map[string]struct{}
	attrs    map[string]any
}

// New returns an AttrMap holding pairs in order. A repeated key keeps its
// first position and its last value.
//
// New panics if a key is unhashable; FromPairs reports an error instead.
func New(pairs ...Pair) *Map {
	return mustFill(&Map{}, pairs)
}

// FromPairs is like New but returns an error for unhashable keys.
func FromPairs(pairs []Pair) (*Map, error) {
	m := &Map{}
	if err := m.Update(pairs...); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap returns an AttrMap holding the entries of src. Go maps carry no
// order, so keys are inserted in sorted order.
func FromMap(src map[string]any) *Map {
	m := &Map{}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		m.store().Set(k, src[k])
	}
	return m
}

// FromKeys returns an AttrMap whose keys are keys, all sharing value.
func FromKeys(keys []any, value any) *Map {
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k, Value: value}
	}
	return New(pairs...)
}

func mustFill(m *Map, pairs []Pair) *Map {
	if err := m.Update(pairs...); err != nil {
		panic(err)
	}
	return m
}

func (m *Map) store() *orderedmap.OrderedMap[any, any] {
	if m.entries == nil {
		m.entries = orderedmap.New[any, any]()
	}
	return m.entries
}

// Kind returns the dynamic type of m.
func (m *Map) Kind() Kind { return m.kind }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil || m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Has reports whether key is present. It never triggers the missing-key
// policy.
func (m *Map) Has(key any) bool {
	if !hashable(key) || m.entries == nil {
		return false
	}
	_, ok := m.entries.Get(key)
	return ok
}

// Lookup returns the value stored under key without applying the
// missing-key policy.
func (m *Map) Lookup(key any) (any, bool) {
	if !hashable(key) || m.entries == nil {
		return nil, false
	}
	return m.entries.Get(key)
}

// Get returns the value stored under key. A missing key is handled by the
// Map's policy: an AttrMap returns a *KeyError, a Counter returns 0 without
// storing it, and a DefaultMap or Tree stores and returns a new value.
func (m *Map) Get(key any) (any, error) {
	if !hashable(key) {
		return nil, unhashableError(key)
	}
	if v, ok := m.store().Get(key); ok {
		return v, nil
	}
	return m.missing(key)
}

func (m *Map) missing(key any) (any, error) {
	switch m.kind {
	case KindCounter:
		return 0, nil
	case KindDefault, KindTree:
		if m.factory == nil {
			break
		}
		v := m.factory()
		m.store().Set(key, v)
		return v, nil
	}
	return nil, &KeyError{Key: key}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key, value any) error {
	if !hashable(key) {
		return unhashableError(key)
	}
	m.store().Set(key, value)
	return nil
}

// Delete removes key, returning a *KeyError if it is absent.
func (m *Map) Delete(key any) error {
	_, err := m.Pop(key)
	return err
}

// Pop removes key and returns its value. A missing key yields a *KeyError
// regardless of the Map's policy.
func (m *Map) Pop(key any) (any, error) {
	if !hashable(key) {
		return nil, unhashableError(key)
	}
	v, ok := m.store().Delete(key)
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return v, nil
}

// PopDefault removes key and returns its value, or def if key is absent.
func (m *Map) PopDefault(key, def any) any {
	if v, err := m.Pop(key); err == nil {
		return v
	}
	return def
}

// PopItem removes and returns the last entry, or the first one when last
// is false. It reports false if m is empty.
func (m *Map) PopItem(last bool) (Pair, bool) {
	if m.Len() == 0 {
		return Pair{}, false
	}
	p := m.entries.Oldest()
	if last {
		p = m.entries.Newest()
	}
	m.entries.Delete(p.Key)
	return Pair{Key: p.Key, Value: p.Value}, true
}

// SetDefault returns the value under key, storing def first if key is
// absent.
func (m *Map) SetDefault(key, def any) (any, error) {
	if !hashable(key) {
		return nil, unhashableError(key)
	}
	if v, ok := m.store().Get(key); ok {
		return v, nil
	}
	m.entries.Set(key, def)
	return def, nil
}

// Update stores every pair in order. It stops at the first unhashable key.
func (m *Map) Update(pairs ...Pair) error {
	for _, p := range pairs {
		if err := m.Set(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Merge stores every entry of other in other's order.
func (m *Map) Merge(other *Map) {
	for k, v := range other.All() {
		m.store().Set(k, v)
	}
}

// Clear removes all entries.
func (m *Map) Clear() {
	m.entries = nil
}

// MoveToEnd moves key to the end of the order, or to the front when last
// is false.
func (m *Map) MoveToEnd(key any, last bool) error {
	if !m.Has(key) {
		return &KeyError{Key: key}
	}
	if last {
		return m.entries.MoveToBack(key)
	}
	return m.entries.MoveToFront(key)
}

// All returns an iterator over the entries in order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if m == nil || m.entries == nil {
			return
		}
		for p := m.entries.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Keys returns the keys in order.
func (m *Map) Keys() []any {
	keys := make([]any, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the values in key order.
func (m *Map) Values() []any {
	values := make([]any, 0, m.Len())
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

// Items returns the entries in order.
func (m *Map) Items() []Pair {
	items := make([]Pair, 0, m.Len())
	for k, v := range m.All() {
		items = append(items, Pair{Key: k, Value: v})
	}
	return items
}

// Copy returns a shallow copy of m with the same order, kind, factory,
// exclusions and real attributes.
func (m *Map) Copy() *Map {
	c := &Map{
		kind:     m.kind,
		factory:  m.factory,
		excluded: cloneSet(m.excluded),
	}
	if m.attrs != nil {
		c.attrs = make(map[string]any, len(m.attrs))
		for k, v := range m.attrs {
			c.attrs[k] = v
		}
	}
	c.Merge(m)
	return c
}

// newLike returns an empty Map of the same kind and factory as m.
func (m *Map) newLike(pairs ...Pair) *Map {
	c := &Map{kind: m.kind, factory: m.factory, excluded: cloneSet(m.excluded)}
	return mustFill(c, pairs)
}

// Equal reports whether m and other hold equal entries in the same order.
// Kinds are not compared.
func (m *Map) Equal(other *Map) bool {
	return mapsEqual(m, other, make(map[[2]*Map]bool))
}

// Equal reports whether a and b are deeply equal. Maps are compared with
// Map.Equal, so entry order matters at every level.
func Equal(a, b any) bool {
	return equal(a, b, make(map[[2]*Map]bool))
}

// mapsEqual treats a pair of Maps already under comparison as equal, so
// Maps that contain themselves compare by shape.
func mapsEqual(m, other *Map, active map[[2]*Map]bool) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	pair := [2]*Map{m, other}
	if active[pair] {
		return true
	}
	active[pair] = true
	defer delete(active, pair)

	a, b := m.entries.Oldest(), other.entries.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if !equal(a.Key, b.Key, active) || !equal(a.Value, b.Value, active) {
			return false
		}
	}
	return true
}

func equal(a, b any, active map[[2]*Map]bool) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		return ok && mapsEqual(x, y, active)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i], active) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// ToMap converts m into nested plain Go maps. Order is lost. A Map reached
// twice converts to the same Go map, so a Map that contains itself yields a
// Go map that contains itself.
func (m *Map) ToMap() map[any]any {
	return m.toMap(make(map[*Map]map[any]any))
}

func (m *Map) toMap(done map[*Map]map[any]any) map[any]any {
	if out, ok := done[m]; ok {
		return out
	}
	out := make(map[any]any, m.Len())
	done[m] = out
	for k, v := range m.All() {
		out[k] = plain(v, done)
	}
	return out
}

func plain(v any, done map[*Map]map[any]any) any {
	switch x := v.(type) {
	case *Map:
		return x.toMap(done)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = plain(x[i], done)
		}
		return out
	}
	return v
}

// String formats m as its kind followed by its entries. A Map nested in
// itself is printed as "{...}".
func (m *Map) String() string {
	if m == nil {
		return "<nil>"
	}
	var b strings.Builder
	m.format(&b, path{})
	return b.String()
}

func (m *Map) format(b *strings.Builder, p path) {
	b.WriteString(m.kind.String())
	if p.has(m) {
		b.WriteString("{...}")
		return
	}
	p = p.push(m)
	b.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%v: ", k)
		formatValue(b, v, p)
		i++
	}
	b.WriteByte('}')
}

func formatValue(b *strings.Builder, v any, p path) {
	switch x := v.(type) {
	case *Map:
		if x != nil {
			x.format(b, p)
			return
		}
	case []any:
		b.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				b.WriteByte(' ')
			}
			formatValue(b, e, p)
		}
		b.WriteByte(']')
		return
	}
	fmt.Fprintf(b, "%v", v)
}

// path holds the Maps enclosing the value being visited.
type path []*Map

func (p path) has(m *Map) bool { return slices.Contains(p, m) }

func (p path) push(m *Map) path { return append(p, m) }

// hashable reports whether key can be stored in a Map. Mappings are never
// hashable, even though *Map itself is comparable.
func hashable(key any) bool {
	if key == nil {
		return true
	}
	if _, ok := key.(*Map); ok {
		return false
	}
	return reflect.ValueOf(key).Comparable()
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	if s == nil {
		return nil
	}
	c := make(map[string]struct{}, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
