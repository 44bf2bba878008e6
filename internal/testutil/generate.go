package testutil

import (
	"math/rand/v2"

	attrmap "github.com/KimNorgaard/go-attrmap"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-"

// Generator builds random nested documents made of Maps, slices and
// scalars. Every value it produces survives a YAML and a JSON round trip
// unchanged: floats are never integral and strings are printable.
type Generator struct {
	r *rand.Rand
	// JSON restricts numbers to float64, which is what encoding/json yields.
	JSON bool
}

// NewGenerator returns a Generator with a fixed seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Map returns a Map with n random string keys. Nesting stops at depth 4.
func (g *Generator) Map(n int) *attrmap.Map {
	return g.obj(n, 0)
}

func (g *Generator) obj(n, depth int) *attrmap.Map {
	m := attrmap.New()
	for m.Len() < n {
		_ = m.Set(g.String(10), g.value(depth+1))
	}
	return m
}

func (g *Generator) value(depth int) any {
	b := g.r.IntN(8)
	if depth > 4 && b > 5 {
		b %= 5
	}
	switch b {
	case 0:
		return false
	case 1:
		return true
	case 2:
		return nil
	case 3:
		if g.JSON {
			return float64(g.r.IntN(1 << 20))
		}
		return g.r.IntN(0xfffffff) - 0x7ffffff
	case 4:
		return float64(g.r.IntN(1<<20)) + 0.5
	case 5:
		return g.String(0)
	case 6:
		out := make([]any, g.r.IntN(10))
		for i := range out {
			out[i] = g.value(depth + 1)
		}
		return out
	default:
		return g.obj(g.r.IntN(8), depth)
	}
}

// String returns a random printable string of n characters, or of a random
// length between 8 and 40 when n is zero. It never starts with a digit or a
// blank, so it cannot be mistaken for another scalar type.
func (g *Generator) String(n int) string {
	if n == 0 {
		n = 8 + g.r.IntN(32)
	}
	b := make([]byte, n)
	b[0] = letters[g.r.IntN(52)]
	for i := 1; i < n; i++ {
		b[i] = letters[g.r.IntN(len(letters)-2)]
	}
	return string(b)
}
