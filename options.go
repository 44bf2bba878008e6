package attrmap

import "fmt"

const defaultMaxDepth = 1000

// An Option configures loading and dumping.
type Option func(*options) error

type options struct {
	maxDepth  int
	indent    int
	newMap    Constructor
	useNumber bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		maxDepth: defaultMaxDepth,
		newMap:   New,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MaxDepth returns an Option that sets the maximum nesting depth accepted
// by the loaders. This guards against stack exhaustion on deeply nested or
// self-referencing sequence documents.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("attrmap: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// Indent sets the number of spaces used per nesting level when dumping YAML.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 2 || n > 9 {
			return fmt.Errorf("attrmap: indent must be between 2 and 9 spaces, got %d", n)
		}
		o.indent = n
		return nil
	}
}

// WithConstructor sets the function used to build every mapping found while
// loading. It plays the role of an object pairs hook: the constructor
// receives the mapping's entries in document order.
func WithConstructor(c Constructor) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("attrmap: constructor must not be nil")
		}
		o.newMap = c
		return nil
	}
}

// UseNumber makes LoadJSON decode numbers as json.Number instead of float64.
func UseNumber() Option {
	return func(o *options) error {
		o.useNumber = true
		return nil
	}
}
