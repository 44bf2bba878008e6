/*
Package attrmap provides an insertion-ordered map whose entries can also be
read and written as attributes, together with YAML and JSON adapters that
keep key order across a round trip.

A Map behaves like an ordered dictionary: Set appends new keys, overwriting
keeps a key's position, and iteration follows insertion order unless
MoveToEnd or PopItem reorder it. On top of that, GetAttr, SetAttr and DelAttr
alias item access for every name that is not reserved:

	m := attrmap.New(attrmap.Pair{Key: "name", Value: "attrmap"})
	v, err := m.GetAttr("name") // "attrmap"
	err = m.SetAttr("version", 1)
	_, err = m.GetAttr("missing") // *AttributeError, not *KeyError

Names starting with ReservedPrefix, the names excluded by a Map's kind and
names registered with Exclude bypass the entries and resolve against real
attributes instead.

# Kinds

Every Map has a Kind fixed at construction that decides what happens when a
key is missing:

  - New builds an AttrMap: missing keys are errors.
  - NewCounter builds a Counter: missing keys read as zero and are only
    stored once written, for example with Add.
  - NewDefault builds a DefaultMap: missing keys are filled from a Factory,
    even on a plain read.
  - NewTree builds a Tree: a DefaultMap whose missing keys hold new Trees, so
    arbitrarily deep paths can be assigned at once:

	t := attrmap.NewTree()
	err := t.SetPath([]string{"a", "b", "c"}, 1) // {a: {b: {c: 1}}}

Copy keeps the kind of the Map it copies.

# Serialization

Load and Dump convert between YAML documents and Maps using gopkg.in/yaml.v3.
Load builds a Map for every mapping, including !!omap ones, resolves merge
keys and rejects unhashable keys with a *ConstructionError. Dump writes Maps
as plain mappings in entry order. *Map also implements yaml.Marshaler,
yaml.Unmarshaler, json.Marshaler and json.Unmarshaler, so it can be used as
a field type with either package. LoadJSON decodes a JSON document the same
way Load does, passing every object's members to a Constructor.

A Map is not safe for concurrent use.
*/
package attrmap
