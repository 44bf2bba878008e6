package attrmap_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	attrmap "github.com/KimNorgaard/go-attrmap"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := os.ReadFile(file)
			require.NoError(t, err)

			v, err := attrmap.Load(src)

			var actual []byte
			if err != nil {
				// Documents that are expected to fail loading keep the
				// error message in their golden file.
				actual = []byte(err.Error())
			} else {
				actual, err = attrmap.Dump(v, attrmap.Indent(2))
				require.NoError(t, err)
			}

			goldenFile := strings.Replace(file, ".yaml", ".golden", 1)
			if *update {
				err := os.WriteFile(goldenFile, actual, 0o644)
				require.NoError(t, err)
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")

			require.Equal(t, string(expected), string(actual), "Round-trip output does not match golden file.")
		})
	}
}
