package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestdataFS holds the YAML and JSON documents the loader tests share:
// merge-key layouts, !!omap sequences, unhashable keys and unsorted keys.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData returns the document stored as testdata/<name>.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("testutil: fixture %s: %w", name, err)
	}
	return data, nil
}

// MustReadTestData returns the fixture document or fails t.
func MustReadTestData(t testing.TB, name string) []byte {
	t.Helper()
	data, err := ReadTestData(name)
	require.NoError(t, err)
	return data
}
