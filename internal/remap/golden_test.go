package remap_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/Zuo-Peng/awremap/internal/mapping"
	"github.com/Zuo-Peng/awremap/internal/remap"
)

// TestGolden runs every testdata/*.txt archive. The archive comment is the
// expected Stats string, or "error: <text>" when Remap must fail without
// writing anything.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no test cases")

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			parts := make(map[string][]byte)
			for _, f := range ar.Files {
				parts[f.Name] = f.Data
			}
			tree, err := mapping.Read(bytes.NewReader(parts["mappings.tiny"]), "mappings.tiny", mapping.Options{})
			require.NoError(t, err)

			var out bytes.Buffer
			rm := remap.New(tree, bytes.NewReader(parts["input"]), &out)
			count, err := rm.Remap()

			want := strings.TrimSpace(string(ar.Comment))
			if msg, ok := strings.CutPrefix(want, "error: "); ok {
				require.Error(t, err)
				assert.Contains(t, err.Error(), msg)
				assert.Empty(t, out.String())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(parts["output"]), out.String())
			assert.Equal(t, rm.Stats().Entries, count)
			if got := rm.Stats().String(); got != want {
				t.Errorf("stats: %s\nwant:  %s\n%s", got, want, spew.Sdump(rm.Stats()))
			}
		})
	}
}
