package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/awremap/internal/mapping"
	"github.com/Zuo-Peng/awremap/internal/remap"
)

var _ remap.Provider = (*Provider)(nil)

const tinyMappings = "v1\tofficial\tnamed\n" +
	"CLASS\ta\tcom/example/Foo\n" +
	"CLASS\tb\tcom/example/Bar_Baz\n" +
	"FIELD\ta\tI\tc\tcount\n" +
	"METHOD\ta\t(Lb;)V\td\tapply\n" +
	"METHOD\ta\t()V\td\treset\n"

func setup(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "cache", "mappings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	path := filepath.Join(dir, "mappings.tiny")
	require.NoError(t, os.WriteFile(path, []byte(tinyMappings), 0o644))
	return db, path
}

func TestSyncImportsOnce(t *testing.T) {
	db, path := setup(t)

	loads := 0
	load := func(p string, opts mapping.Options) (*mapping.Tree, error) {
		loads++
		return mapping.Load(p, opts)
	}

	res, err := Sync(db, path, mapping.Options{}, load)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, 2, res.Classes)
	assert.Equal(t, 3, res.Members)

	res, err = Sync(db, path, mapping.Options{}, load)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 2, res.Classes)
	assert.Equal(t, 3, res.Members)
	assert.Equal(t, 1, loads)

	n, err := db.TableCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSyncReimportsOnSizeChange(t *testing.T) {
	db, path := setup(t)

	first, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(tinyMappings+"CLASS\te\tcom/example/Extra\n"), 0o644))
	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, first.Table.ID, res.Table.ID)

	classes, err := db.ClassCount(res.Table.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, classes)
}

func TestSyncNamespacePairsAreSeparate(t *testing.T) {
	db, path := setup(t)

	_, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)
	res, err := Sync(db, path, mapping.Options{From: "named", To: "official"}, nil)
	require.NoError(t, err)
	assert.True(t, res.Updated)

	n, err := db.TableCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := db.Provider(res.Table.ID)
	require.NoError(t, err)
	defer p.Close()
	dst, ok := p.Class("com/example/Foo")
	assert.True(t, ok)
	assert.Equal(t, "a", dst)
}

func TestSyncPrunesMissingFiles(t *testing.T) {
	db, path := setup(t)

	other := filepath.Join(filepath.Dir(path), "other.tiny")
	require.NoError(t, os.WriteFile(other, []byte(tinyMappings), 0o644))
	_, err := Sync(db, other, mapping.Options{}, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(other))

	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pruned)

	tables, err := db.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, res.Table.Path, tables[0].Path)
}

func TestSyncUnknownNamespace(t *testing.T) {
	db, path := setup(t)

	_, err := Sync(db, path, mapping.Options{From: "intermediary"}, nil)
	assert.ErrorIs(t, err, mapping.ErrUnknownNamespace)
}

func TestProviderLookups(t *testing.T) {
	db, path := setup(t)
	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)

	p, err := db.Provider(res.Table.ID)
	require.NoError(t, err)
	defer p.Close()

	dst, ok := p.Class("a")
	assert.True(t, ok)
	assert.Equal(t, "com/example/Foo", dst)

	_, ok = p.Class("zz")
	assert.False(t, ok)

	f, ok := p.Field("a", "c", "I")
	require.True(t, ok)
	assert.Equal(t, mapping.Member{Owner: "com/example/Foo", Name: "count", Desc: "I"}, f)

	m, ok := p.Method("a", "d", "(Lb;)V")
	require.True(t, ok)
	assert.Equal(t, mapping.Member{Owner: "com/example/Foo", Name: "apply", Desc: "(Lcom/example/Bar_Baz;)V"}, m)

	m, ok = p.Method("a", "d", "()V")
	require.True(t, ok)
	assert.Equal(t, "reset", m.Name)

	_, ok = p.Method("a", "d", "(I)V")
	assert.False(t, ok)

	assert.Equal(t, "(Lcom/example/Foo;[Lcom/example/Bar_Baz;)Lq;", p.RemapDescriptor("(La;[Lb;)Lq;"))
	assert.NoError(t, p.Err())
}

func TestProviderMatchesTree(t *testing.T) {
	db, path := setup(t)
	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)
	tree, err := mapping.Load(path, mapping.Options{})
	require.NoError(t, err)

	p, err := db.Provider(res.Table.ID)
	require.NoError(t, err)
	defer p.Close()

	tree.EachClass(func(src, dst string) {
		got, ok := p.Class(src)
		assert.True(t, ok, src)
		assert.Equal(t, dst, got)
	})
	tree.EachMethod(func(src, dst mapping.Member) {
		got, ok := p.Method(src.Owner, src.Name, src.Desc)
		assert.True(t, ok, src.String())
		assert.Equal(t, dst, got)
	})
}

func TestSearch(t *testing.T) {
	db, path := setup(t)
	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)

	results, err := db.Search(SearchOptions{TableID: res.Table.ID, Query: "Foo"})
	require.NoError(t, err)
	assert.Equal(t, []Result{{Kind: "class", Src: "a", Dst: "com/example/Foo"}}, results)

	results, err = db.Search(SearchOptions{TableID: res.Table.ID, Query: "apply"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "method", results[0].Kind)
	assert.Equal(t, "com/example/Foo.apply(Lcom/example/Bar_Baz;)V", results[0].Dst)

	// underscore is literal, not a LIKE wildcard
	results, err = db.Search(SearchOptions{TableID: res.Table.ID, Query: "r_B"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	results, err = db.Search(SearchOptions{TableID: res.Table.ID, Query: "e_F"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteTable(t *testing.T) {
	db, path := setup(t)
	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)

	require.NoError(t, db.DeleteTable(res.Table.ID))

	classes, err := db.ClassCount(0)
	require.NoError(t, err)
	assert.Zero(t, classes)
	members, err := db.MemberCount(0)
	require.NoError(t, err)
	assert.Zero(t, members)
}

func TestProviderDescriptorlessRow(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "mappings.db"))
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(dir, "mappings.yaml")
	yml := "classes:\n" +
		"  - from: a\n" +
		"    to: com/example/Foo\n" +
		"    fields:\n" +
		"      - {from: x, to: y}\n" +
		"      - {from: x, to: exact, desc: I}\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	res, err := Sync(db, path, mapping.Options{}, nil)
	require.NoError(t, err)
	p, err := db.Provider(res.Table.ID)
	require.NoError(t, err)
	defer p.Close()

	f, ok := p.Field("a", "x", "La;")
	require.True(t, ok)
	assert.Equal(t, mapping.Member{Owner: "com/example/Foo", Name: "y", Desc: "Lcom/example/Foo;"}, f)

	f, ok = p.Field("a", "x", "I")
	require.True(t, ok)
	assert.Equal(t, mapping.Member{Owner: "com/example/Foo", Name: "exact", Desc: "I"}, f)
	assert.NoError(t, p.Err())
}

func TestSyncEnigmaDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "mappings.db"))
	require.NoError(t, err)
	defer db.Close()

	root := filepath.Join(dir, "mappings")
	nested := filepath.Join(root, "com", "example", "Foo.mapping")
	require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
	require.NoError(t, os.WriteFile(nested, []byte("CLASS a com/example/Foo\n"), 0o644))

	first, err := Sync(db, root, mapping.Options{}, nil)
	require.NoError(t, err)
	assert.True(t, first.Updated)
	assert.Equal(t, 1, first.Classes)

	res, err := Sync(db, root, mapping.Options{}, nil)
	require.NoError(t, err)
	assert.False(t, res.Updated)

	edited := "CLASS a com/example/Foo\n\tFIELD b count I\n"
	require.NoError(t, os.WriteFile(nested, []byte(edited), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(nested, later, later))

	res, err = Sync(db, root, mapping.Options{}, nil)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, first.Table.ID, res.Table.ID)
	assert.Equal(t, 1, res.Members)

	p, err := db.Provider(res.Table.ID)
	require.NoError(t, err)
	defer p.Close()
	f, ok := p.Field("a", "b", "I")
	require.True(t, ok)
	assert.Equal(t, mapping.Member{Owner: "com/example/Foo", Name: "count", Desc: "I"}, f)
}
