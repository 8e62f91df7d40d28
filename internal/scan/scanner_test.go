package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("accessWidener v2 named\n"), 0o644))
	}
	write("mod.accesswidener")
	write("sub/extra.aw")
	write("sub/Upper.AW")
	write("notes.txt")
	write("build/generated.accesswidener")
	write(".gradle/cache.accesswidener")

	files, err := ScanDir(root)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
		assert.Equal(t, int64(len("accessWidener v2 named\n")), f.Size)
	}
	assert.Equal(t, []string{
		"mod.accesswidener",
		filepath.Join("sub", "Upper.AW"),
		filepath.Join("sub", "extra.aw"),
	}, rels)
}

func TestScanDirMissingRoot(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, os.IsNotExist(err))
}
