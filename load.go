package attrmap

import (
	"bytes"
	"errors"
	"io"
)

// Load parses the first YAML document in data. Every mapping, whether
// tagged !!map or !!omap, is constructed as a Map that keeps the
// document's key order; merge keys are resolved. An empty document loads
// as nil.
func Load(data []byte, opts ...Option) (any, error) {
	v, err := NewDecoder(bytes.NewReader(data), opts...).Decode()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return v, err
}

// LoadAll parses every YAML document in data.
func LoadAll(data []byte, opts ...Option) ([]any, error) {
	d := NewDecoder(bytes.NewReader(data), opts...)
	var docs []any
	for {
		v, err := d.Decode()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

// Dump returns the YAML encoding of v. Maps are written as plain mappings
// in entry order, never sorted.
func Dump(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
