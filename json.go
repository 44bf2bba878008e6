package attrmap

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
)

// LoadJSON decodes the JSON document in data. Every object is passed, as
// its members in document order, to the configured Constructor (New by
// default), the same way an object pairs hook works. Numbers decode as
// float64 unless UseNumber is given.
func LoadJSON(data []byte, opts ...Option) (any, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if o.useNumber {
		dec.UseNumber()
	}
	js := &jsonState{dec: dec, depth: o.maxDepth, newMap: o.newMap}
	v, err := js.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("attrmap: invalid JSON: data after top-level value")
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler. The document must be an
// object; its members replace the entries of m in document order. Nested
// objects are built with m's kind. A JSON null leaves m unchanged.
func (m *Map) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	js := &jsonState{dec: dec, depth: defaultMaxDepth, newMap: m.newLike}
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("attrmap: %w", err)
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("attrmap: cannot unmarshal JSON %v into Map", tok)
	}
	pairs, err := js.members()
	if err != nil {
		return err
	}
	m.Clear()
	return m.Update(pairs...)
}

// MarshalJSON implements json.Marshaler, writing members in entry order.
// Non-string scalar keys are converted to their text form; two keys with
// the same text form are an error. A Map that contains itself yields
// ErrRecursiveMap.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.writeJSON(&buf, path{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Map) writeJSON(buf *bytes.Buffer, p path) error {
	if p.has(m) {
		return ErrRecursiveMap
	}
	p = p.push(m)
	seen := make(map[string]any, m.Len())
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		ks, err := jsonKey(k)
		if err != nil {
			return err
		}
		if prev, ok := seen[ks]; ok {
			return fmt.Errorf("attrmap: keys %#v and %#v both encode as JSON member %q", prev, k, ks)
		}
		seen[ks] = k
		kb, err := json.Marshal(ks)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := writeJSONValue(buf, v, p); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any, p path) error {
	switch x := v.(type) {
	case *Map:
		if x != nil {
			return x.writeJSON(buf, p)
		}
	case []any:
		if x == nil {
			break
		}
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, e, p); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func jsonKey(k any) (string, error) {
	switch x := k.(type) {
	case string:
		return x, nil
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(x), nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		return string(b), err
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()), nil
	case reflect.String:
		return rv.String(), nil
	}
	return "", fmt.Errorf("attrmap: unsupported JSON key type %T", k)
}

type jsonState struct {
	dec    *json.Decoder
	depth  int
	newMap Constructor
}

func (js *jsonState) value() (any, error) {
	js.depth--
	if js.depth <= 0 {
		return nil, fmt.Errorf("attrmap: reached max recursion depth")
	}
	defer func() { js.depth++ }()

	tok, err := js.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("attrmap: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			pairs, err := js.members()
			if err != nil {
				return nil, err
			}
			return js.newMap(pairs...), nil
		case '[':
			return js.elements()
		}
		return nil, fmt.Errorf("attrmap: unexpected JSON delimiter %q", t)
	}
	return tok, nil
}

// members reads object members up to and including the closing brace.
func (js *jsonState) members() ([]Pair, error) {
	var pairs []Pair
	for js.dec.More() {
		tok, err := js.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("attrmap: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("attrmap: invalid JSON object key %v", tok)
		}
		v, err := js.value()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: key, Value: v})
	}
	if _, err := js.dec.Token(); err != nil {
		return nil, fmt.Errorf("attrmap: %w", err)
	}
	return pairs, nil
}

// elements reads array elements up to and including the closing bracket.
func (js *jsonState) elements() ([]any, error) {
	out := []any{}
	for js.dec.More() {
		v, err := js.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := js.dec.Token(); err != nil {
		return nil, fmt.Errorf("attrmap: %w", err)
	}
	return out, nil
}
