package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/awremap/internal/mapping"
)

// LoadFunc parses a mapping file. Sync uses mapping.Load when nil.
type LoadFunc func(path string, opts mapping.Options) (*mapping.Tree, error)

type SyncResult struct {
	Table   TableRow
	Updated bool
	Classes int
	Members int
	Pruned  int
}

func (r SyncResult) String() string {
	return fmt.Sprintf("classes=%d members=%d updated=%t pruned=%d",
		r.Classes, r.Members, r.Updated, r.Pruned)
}

// Sync makes sure the cache holds the current contents of the mapping file
// (or Enigma directory) at path for the namespaces in opts, re-importing it
// when its mtime or size changed. Tables whose files are gone are pruned.
func Sync(db *DB, path string, opts mapping.Options, load LoadFunc) (SyncResult, error) {
	var res SyncResult
	if load == nil {
		load = mapping.Load
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return res, err
	}
	st, err := statMappings(abs)
	if err != nil {
		return res, err
	}

	res.Pruned, err = pruneTables(db)
	if err != nil {
		return res, fmt.Errorf("prune: %w", err)
	}

	row, err := db.GetTable(abs, opts.From, opts.To)
	if err != nil {
		return res, err
	}
	if row != nil && !needsUpdate(row, st) {
		res.Table = *row
		if res.Classes, err = db.ClassCount(row.ID); err != nil {
			return res, err
		}
		if res.Members, err = db.MemberCount(row.ID); err != nil {
			return res, err
		}
		return res, nil
	}

	tree, err := load(abs, opts)
	if err != nil {
		return res, err
	}
	t, err := importTree(db, abs, opts, st, tree)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", path, err)
	}
	res.Table = t
	res.Updated = true
	res.Classes = tree.ClassCount()
	res.Members = tree.MemberCount()
	return res, nil
}

// stamp is what freshness is judged on.
type stamp struct {
	mtime int64
	size  int64
}

// statMappings stamps a mapping file, or an Enigma directory by its newest
// mtime and total size, since editing a nested file leaves the directory's
// own mtime alone.
func statMappings(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	st := stamp{mtime: info.ModTime().Unix(), size: info.Size()}
	if !info.IsDir() {
		return st, nil
	}

	files, err := mapping.EnigmaFiles(path)
	if err != nil {
		return stamp{}, err
	}
	st.size = 0
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			return stamp{}, err
		}
		if m := fi.ModTime().Unix(); m > st.mtime {
			st.mtime = m
		}
		st.size += fi.Size()
	}
	return st, nil
}

func needsUpdate(row *TableRow, st stamp) bool {
	return row.Mtime != st.mtime || row.Size != st.size
}

func importTree(db *DB, path string, opts mapping.Options, st stamp, tree *mapping.Tree) (TableRow, error) {
	t := TableRow{
		Path:     path,
		From:     opts.From,
		To:       opts.To,
		Mtime:    st.mtime,
		Size:     st.size,
		LoadedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	err = tx.QueryRow("SELECT id FROM tables WHERE path = ? AND from_ns = ? AND to_ns = ?", t.Path, t.From, t.To).Scan(&t.ID)
	switch {
	case err == sql.ErrNoRows:
		r, err := tx.Exec(
			"INSERT INTO tables (path, from_ns, to_ns, mtime, size, loaded_at) VALUES (?, ?, ?, ?, ?, ?)",
			t.Path, t.From, t.To, t.Mtime, t.Size, t.LoadedAt,
		)
		if err != nil {
			return t, err
		}
		if t.ID, err = r.LastInsertId(); err != nil {
			return t, err
		}
	case err != nil:
		return t, err
	default:
		// delete old data first
		if err := deleteRows(tx, t.ID); err != nil {
			return t, err
		}
		if _, err := tx.Exec("UPDATE tables SET mtime = ?, size = ?, loaded_at = ? WHERE id = ?", t.Mtime, t.Size, t.LoadedAt, t.ID); err != nil {
			return t, err
		}
	}

	classStmt, err := tx.Prepare("INSERT INTO classes (table_id, src, dst) VALUES (?, ?, ?)")
	if err != nil {
		return t, err
	}
	defer classStmt.Close()

	memberStmt, err := tx.Prepare(
		`INSERT INTO members (table_id, kind, owner, name, descr, dst_owner, dst_name, dst_descr)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return t, err
	}
	defer memberStmt.Close()

	var insertErr error
	tree.EachClass(func(src, dst string) {
		if insertErr == nil {
			_, insertErr = classStmt.Exec(t.ID, src, dst)
		}
	})
	insertMember := func(kind string) func(src, dst mapping.Member) {
		return func(src, dst mapping.Member) {
			if insertErr == nil {
				_, insertErr = memberStmt.Exec(t.ID, kind, src.Owner, src.Name, src.Desc, dst.Owner, dst.Name, dst.Desc)
			}
		}
	}
	tree.EachField(insertMember(kindField))
	tree.EachMethod(insertMember(kindMethod))
	if insertErr != nil {
		return t, insertErr
	}

	return t, tx.Commit()
}

func pruneTables(db *DB) (int, error) {
	tables, err := db.Tables()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, t := range tables {
		if _, err := os.Stat(t.Path); os.IsNotExist(err) {
			if err := db.DeleteTable(t.ID); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
