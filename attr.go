package attrmap

import (
	"errors"
	"fmt"
	"strings"
)

// ReservedPrefix marks names that always bypass attribute aliasing.
const ReservedPrefix = "__"

// Names excluded from aliasing on Counters.
const (
	AttrMostCommon = "most_common"
	AttrElements   = "elements"
	AttrSubtract   = "subtract"
)

// Names excluded from aliasing on DefaultMaps and Trees.
const (
	AttrDefaultFactory = "default_factory"
	AttrDisplayHook    = "_ipython_display_"
)

var kindExclusions = map[Kind][]string{
	KindCounter: {AttrMostCommon, AttrElements, AttrSubtract},
	KindDefault: {AttrDefaultFactory, AttrDisplayHook},
	KindTree:    {AttrDefaultFactory, AttrDisplayHook},
}

// Exclude registers names that bypass attribute aliasing on m, in addition
// to the reserved prefix and the names excluded by m's kind.
func (m *Map) Exclude(names ...string) {
	if m.excluded == nil {
		m.excluded = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		m.excluded[n] = struct{}{}
	}
}

// IsExcluded reports whether name bypasses attribute aliasing on m.
func (m *Map) IsExcluded(name string) bool {
	if strings.HasPrefix(name, ReservedPrefix) {
		return true
	}
	if _, ok := m.excluded[name]; ok {
		return true
	}
	for _, n := range kindExclusions[m.kind] {
		if n == name {
			return true
		}
	}
	return false
}

// GetAttr returns the entry stored under name. Excluded names resolve
// against m's real attributes instead. A missing name yields an
// *AttributeError, never a *KeyError.
func (m *Map) GetAttr(name string) (any, error) {
	if m.IsExcluded(name) {
		if v, ok := m.realAttr(name); ok {
			return v, nil
		}
		return nil, &AttributeError{Name: name}
	}
	v, err := m.Get(name)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, &AttributeError{Name: name}
	}
	return v, err
}

// SetAttr stores value under name, or sets the real attribute name when
// name is excluded.
func (m *Map) SetAttr(name string, value any) error {
	if !m.IsExcluded(name) {
		return m.Set(name, value)
	}
	if name == AttrDefaultFactory && (m.kind == KindDefault || m.kind == KindTree) {
		switch f := value.(type) {
		case nil:
			m.factory = nil
		case Factory:
			m.factory = f
		case func() any:
			m.factory = f
		default:
			return fmt.Errorf("attrmap: %s must be a Factory, got %T", name, value)
		}
		return nil
	}
	if m.attrs == nil {
		m.attrs = make(map[string]any)
	}
	m.attrs[name] = value
	return nil
}

// DelAttr removes the entry stored under name, or the real attribute name
// when name is excluded. A missing name yields an *AttributeError.
func (m *Map) DelAttr(name string) error {
	if !m.IsExcluded(name) {
		err := m.Delete(name)
		if errors.Is(err, ErrKeyNotFound) {
			return &AttributeError{Name: name}
		}
		return err
	}
	if _, ok := m.attrs[name]; ok {
		delete(m.attrs, name)
		return nil
	}
	if name == AttrDefaultFactory && (m.kind == KindDefault || m.kind == KindTree) {
		m.factory = nil
		return nil
	}
	return &AttributeError{Name: name}
}

func (m *Map) realAttr(name string) (any, bool) {
	if v, ok := m.attrs[name]; ok {
		return v, true
	}
	switch m.kind {
	case KindCounter:
		switch name {
		case AttrMostCommon:
			return m.MostCommon, true
		case AttrElements:
			return m.Elements, true
		case AttrSubtract:
			return m.Subtract, true
		}
	case KindDefault, KindTree:
		if name == AttrDefaultFactory {
			return m.factory, true
		}
	}
	return nil, false
}

// Child returns the Map stored under name, following the missing-key
// policy. On a Tree, missing children are created.
func (m *Map) Child(name string) (*Map, error) {
	v, err := m.GetAttr(name)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("attrmap: attribute %s is %T, not a map", name, v)
	}
	return c, nil
}

// GetPath follows a chain of attribute names and returns the final value.
func (m *Map) GetPath(names ...string) (any, error) {
	if len(names) == 0 {
		return m, nil
	}
	cur := m
	for _, n := range names[:len(names)-1] {
		c, err := cur.Child(n)
		if err != nil {
			return nil, err
		}
		cur = c
	}
	return cur.GetAttr(names[len(names)-1])
}

// SetPath follows all but the last name of path and stores value under the
// last one. On a Tree every intermediate level is created on demand, so
// SetPath([]string{"a", "b", "c"}, 1) works on an empty Tree.
func (m *Map) SetPath(path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("attrmap: empty attribute path")
	}
	cur := m
	for _, n := range path[:len(path)-1] {
		c, err := cur.Child(n)
		if err != nil {
			return err
		}
		cur = c
	}
	return cur.SetAttr(path[len(path)-1], value)
}
