package attrmap

// NewDefault returns a DefaultMap holding pairs in order. Reading a missing
// key through Get or GetAttr stores factory's result under it and returns
// it, so even a plain read mutates the map. A nil factory makes missing
// keys errors, as on an AttrMap.
func NewDefault(factory Factory, pairs ...Pair) *Map {
	return mustFill(&Map{kind: KindDefault, factory: factory}, pairs)
}

// NewTree returns a Tree: a DefaultMap whose factory returns a fresh Tree.
// Every missing level of an attribute chain is created on first access.
func NewTree(pairs ...Pair) *Map {
	return mustFill(&Map{kind: KindTree, factory: newTreeNode}, pairs)
}

func newTreeNode() any { return NewTree() }

// Factory returns the factory of a DefaultMap or Tree, or nil.
func (m *Map) Factory() Factory { return m.factory }
