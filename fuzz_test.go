package attrmap_test

import (
	"os"
	"path/filepath"
	"testing"

	attrmap "github.com/KimNorgaard/go-attrmap"
	"github.com/stretchr/testify/require"
)

func FuzzRoundTrip(f *testing.F) {
	seedFiles, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}

	for _, file := range seedFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(data)
	}

	f.Add([]byte("{}"))
	f.Add([]byte("[]"))
	f.Add([]byte("null"))
	f.Add([]byte("a: 1\nb: [x, y]\n"))
	f.Add([]byte("- {z: 1, a: 2}\n"))
	f.Add([]byte("&root\nname: loop\nself: *root\n"))
	f.Add([]byte("&a\nx: 1\n<<: *a\n"))
	f.Add([]byte("&a {x: 1, <<: [{y: 2}, *a]}"))

	f.Fuzz(func(t *testing.T, originalData []byte) {
		v1, err := attrmap.Load(originalData, attrmap.MaxDepth(64))
		if err != nil {
			return
		}
		dumped, err := attrmap.Dump(v1)
		if hasCycle(v1, nil) {
			require.ErrorIs(t, err, attrmap.ErrRecursiveMap)
			return
		}
		require.NoError(t, err, "Dump failed for a successfully loaded value")

		v2, err := attrmap.Load(dumped)
		require.NoError(t, err, "Load failed on our own dumped output")

		require.True(t, attrmap.Equal(v1, v2), "value changed after a dump/load round trip:\n%s", dumped)
	})
}

// hasCycle reports whether v contains a Map that is its own descendant,
// which anchors and aliases can produce.
func hasCycle(v any, seen []*attrmap.Map) bool {
	switch x := v.(type) {
	case *attrmap.Map:
		for _, s := range seen {
			if s == x {
				return true
			}
		}
		seen = append(seen, x)
		for _, e := range x.Values() {
			if hasCycle(e, seen) {
				return true
			}
		}
	case []any:
		for _, e := range x {
			if hasCycle(e, seen) {
				return true
			}
		}
	}
	return false
}
