package attrmap

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	mapTag   = "!!map"
	omapTag  = "!!omap"
	mergeTag = "!!merge"
)

// Decoder reads YAML documents from an input stream and constructs every
// mapping as a Map, preserving the document's key order.
type Decoder struct {
	dec  *yaml.Decoder
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder may buffer data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{dec: yaml.NewDecoder(r), opts: opts}
}

// Decode reads the next document from the stream and returns its value.
// Mappings become *Map values built by the configured Constructor,
// sequences become []any and scalars keep the types yaml.v3 resolves for
// them. Decode returns io.EOF when the stream holds no more documents.
func (d *Decoder) Decode() (any, error) {
	o, err := newOptions(d.opts)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := d.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("attrmap: %w", err)
	}
	ds := newDecodeState(o)
	return ds.construct(&doc)
}

// UnmarshalYAML implements yaml.Unmarshaler. The node must be a mapping; its
// entries replace those of m in document order. Nested mappings are built
// with m's kind.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	ds := newDecodeState(&options{maxDepth: defaultMaxDepth, newMap: m.newLike})
	if err := ds.checkMapping(node); err != nil {
		return err
	}
	m.Clear()
	return ds.fill(node, m)
}

type decodeState struct {
	depth   int
	newMap  Constructor
	anchors map[*yaml.Node]any
	merging map[*yaml.Node]bool
}

func newDecodeState(o *options) *decodeState {
	return &decodeState{
		depth:   o.maxDepth,
		newMap:  o.newMap,
		anchors: make(map[*yaml.Node]any),
		merging: make(map[*yaml.Node]bool),
	}
}

func (ds *decodeState) construct(n *yaml.Node) (any, error) {
	ds.depth--
	if ds.depth <= 0 {
		return nil, fmt.Errorf("attrmap: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	if v, ok := ds.anchors[n]; ok {
		return v, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return ds.construct(n.Content[0])
	case yaml.AliasNode:
		return ds.construct(n.Alias)
	case yaml.MappingNode:
		m := ds.newMap()
		ds.anchors[n] = m
		if err := ds.fill(n, m); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		if n.ShortTag() == omapTag {
			return ds.constructOrderedPairs(n)
		}
		if n.ShortTag() == mapTag {
			return nil, ds.checkMapping(n)
		}
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := ds.construct(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if tag := n.ShortTag(); tag == mapTag || tag == omapTag {
			return nil, ds.checkMapping(n)
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("attrmap: %w", err)
		}
		ds.anchors[n] = v
		return v, nil
	}
	return nil, fmt.Errorf("attrmap: unsupported YAML node kind %v at line %d, column %d", n.Kind, n.Line, n.Column)
}

// checkMapping returns a *ConstructionError unless n is a mapping node.
func (ds *decodeState) checkMapping(n *yaml.Node) error {
	n = resolveAlias(n)
	if n.Kind == yaml.MappingNode {
		return nil
	}
	return &ConstructionError{
		Problem: "expected a mapping node, but found " + kindName(n),
		Line:    n.Line,
		Column:  n.Column,
	}
}

// fill stores the entries of the mapping node n into m, after resolving
// merge keys.
func (ds *decodeState) fill(n *yaml.Node, m *Map) error {
	pairs, err := ds.flatten(resolveAlias(n))
	if err != nil {
		return err
	}
	for i := 0; i < len(pairs); i += 2 {
		keyNode, valueNode := pairs[i], pairs[i+1]
		key, err := ds.construct(keyNode)
		if err != nil {
			return err
		}
		if !hashable(key) {
			return &ConstructionError{
				Context:       "while constructing a mapping",
				ContextLine:   n.Line,
				ContextColumn: n.Column,
				Problem:       fmt.Sprintf("found unacceptable key %v (unhashable type %T)", key, key),
				Key:           key,
				Line:          keyNode.Line,
				Column:        keyNode.Column,
			}
		}
		value, err := ds.construct(valueNode)
		if err != nil {
			return err
		}
		m.store().Set(key, value)
	}
	return nil
}

// flatten returns the key/value nodes of the mapping n with every merge key
// expanded in place. Merged entries come first so that explicit keys
// override them; within a merge list, earlier mappings override later ones.
//
// A mapping that merges itself, directly or through other merge sources,
// is rejected.
func (ds *decodeState) flatten(n *yaml.Node) ([]*yaml.Node, error) {
	ds.depth--
	if ds.depth <= 0 {
		return nil, fmt.Errorf("attrmap: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	ds.merging[n] = true
	defer delete(ds.merging, n)

	var merged, own []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.ShortTag() != mergeTag {
			own = append(own, keyNode, valueNode)
			continue
		}
		valueNode = resolveAlias(valueNode)
		switch valueNode.Kind {
		case yaml.MappingNode:
			if ds.merging[valueNode] {
				return nil, ds.recursiveMerge(n, valueNode)
			}
			sub, err := ds.flatten(valueNode)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sub...)
		case yaml.SequenceNode:
			subs := make([][]*yaml.Node, 0, len(valueNode.Content))
			for _, c := range valueNode.Content {
				c = resolveAlias(c)
				if c.Kind != yaml.MappingNode {
					return nil, &ConstructionError{
						Context:       "while constructing a mapping",
						ContextLine:   n.Line,
						ContextColumn: n.Column,
						Problem:       "expected a mapping for merging, but found " + kindName(c),
						Line:          c.Line,
						Column:        c.Column,
					}
				}
				if ds.merging[c] {
					return nil, ds.recursiveMerge(n, c)
				}
				sub, err := ds.flatten(c)
				if err != nil {
					return nil, err
				}
				subs = append(subs, sub)
			}
			for i := len(subs) - 1; i >= 0; i-- {
				merged = append(merged, subs[i]...)
			}
		default:
			return nil, &ConstructionError{
				Context:       "while constructing a mapping",
				ContextLine:   n.Line,
				ContextColumn: n.Column,
				Problem:       "expected a mapping or list of mappings for merging, but found " + kindName(valueNode),
				Line:          valueNode.Line,
				Column:        valueNode.Column,
			}
		}
	}
	return append(merged, own...), nil
}

func (ds *decodeState) recursiveMerge(n, source *yaml.Node) error {
	return &ConstructionError{
		Context:       "while constructing a mapping",
		ContextLine:   n.Line,
		ContextColumn: n.Column,
		Problem:       "found recursive merge of the mapping",
		Line:          source.Line,
		Column:        source.Column,
	}
}

// constructOrderedPairs builds a Map from the standard !!omap form: a
// sequence of single-entry mappings.
func (ds *decodeState) constructOrderedPairs(n *yaml.Node) (any, error) {
	m := ds.newMap()
	ds.anchors[n] = m
	for _, c := range n.Content {
		c = resolveAlias(c)
		if c.Kind != yaml.MappingNode || len(c.Content) != 2 {
			return nil, &ConstructionError{
				Context:       "while constructing an ordered map",
				ContextLine:   n.Line,
				ContextColumn: n.Column,
				Problem:       "expected a single mapping item, but found " + kindName(c),
				Line:          c.Line,
				Column:        c.Column,
			}
		}
		if err := ds.fill(c, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
