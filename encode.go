package attrmap

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Encoder writes YAML documents to an output stream.
type Encoder struct {
	enc *yaml.Encoder
	err error
}

// NewEncoder returns a new encoder that writes to w. An invalid option is
// reported by the first call to Encode.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	o, err := newOptions(opts)
	if err != nil {
		return &Encoder{err: err}
	}
	enc := yaml.NewEncoder(w)
	if o.indent > 0 {
		enc.SetIndent(o.indent)
	}
	return &Encoder{enc: enc}
}

// Encode writes the YAML encoding of v to the stream. Documents after the
// first are preceded by a "---" separator. Maps are emitted in entry order.
func (e *Encoder) Encode(v any) error {
	if e.err != nil {
		return e.err
	}
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("attrmap: %w", err)
	}
	return nil
}

// Close flushes any buffered output. It does not close the underlying
// writer.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	return e.enc.Close()
}

// MarshalYAML implements yaml.Marshaler. It represents m as a plain
// mapping node whose entries follow m's order; keys are never sorted. A Map
// that contains itself yields ErrRecursiveMap.
func (m *Map) MarshalYAML() (any, error) {
	return m.yamlNode(path{})
}

func (m *Map) yamlNode(p path) (*yaml.Node, error) {
	if p.has(m) {
		return nil, ErrRecursiveMap
	}
	p = p.push(m)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	for k, v := range m.All() {
		var keyNode yaml.Node
		if err := keyNode.Encode(k); err != nil {
			return nil, fmt.Errorf("encoding key %#v: %w", k, err)
		}
		valueNode, err := yamlValue(v, p)
		if err != nil {
			return nil, fmt.Errorf("encoding value under key %#v: %w", k, err)
		}
		node.Content = append(node.Content, &keyNode, valueNode)
	}
	return node, nil
}

func yamlValue(v any, p path) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Map:
		if x != nil {
			return x.yamlNode(p)
		}
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			c, err := yamlValue(e, p)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, c)
		}
		return node, nil
	}
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return &node, nil
}
