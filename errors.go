package attrmap

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is matched by every *KeyError.
	ErrKeyNotFound = errors.New("attrmap: key not found")

	// ErrAttributeNotFound is matched by every *AttributeError.
	ErrAttributeNotFound = errors.New("attrmap: attribute not found")

	// ErrUnhashableKey is returned when a key cannot be stored in a Map.
	ErrUnhashableKey = errors.New("attrmap: unhashable key")

	// ErrConstruction is matched by every *ConstructionError.
	ErrConstruction = errors.New("attrmap: construction error")

	// ErrRecursiveMap is returned when a Map that contains itself is
	// serialized.
	ErrRecursiveMap = errors.New("attrmap: cannot serialize a recursive Map")
)

// A KeyError is returned when item-style access targets a missing key.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("attrmap: key not found: %#v", e.Key)
}

func (e *KeyError) Is(target error) bool { return target == ErrKeyNotFound }

// An AttributeError is returned when attribute-style access targets a name
// with no corresponding entry or real attribute. It never matches
// ErrKeyNotFound.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return "attrmap: no attribute " + e.Name
}

func (e *AttributeError) Is(target error) bool { return target == ErrAttributeNotFound }

// A ConstructionError is returned by the loaders when a document node cannot
// be turned into a Map. Line and Column locate the offending node, while
// ContextLine and ContextColumn locate the enclosing mapping.
type ConstructionError struct {
	Context       string
	ContextLine   int
	ContextColumn int
	Problem       string
	Key           any
	Line          int
	Column        int
}

func (e *ConstructionError) Error() string {
	msg := "attrmap: "
	if e.Context != "" {
		msg += fmt.Sprintf("%s at line %d, column %d: ", e.Context, e.ContextLine, e.ContextColumn)
	}
	return msg + fmt.Sprintf("%s at line %d, column %d", e.Problem, e.Line, e.Column)
}

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

func unhashableError(key any) error {
	return fmt.Errorf("%w: %#v (type %T)", ErrUnhashableKey, key, key)
}
