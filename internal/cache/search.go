package cache

import (
	"fmt"
	"strings"
)

type SearchOptions struct {
	TableID int64
	Query   string
	Limit   int
}

type Result struct {
	Kind string // "class", "field" or "method"
	Src  string
	Dst  string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns mappings whose source or target name contains the query.
// Members match on their own name, classes on the full internal name.
func (d *DB) Search(opts SearchOptions) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	pattern := "%" + likeEscaper.Replace(opts.Query) + "%"

	rows, err := d.db.Query(`
		SELECT kind, src, dst FROM (
			SELECT 'class' AS kind, src, dst
			FROM classes
			WHERE table_id = ? AND (src LIKE ? ESCAPE '\' OR dst LIKE ? ESCAPE '\')
			UNION ALL
			SELECT CASE kind WHEN 'f' THEN 'field' ELSE 'method' END,
				owner || '.' || name || descr,
				dst_owner || '.' || dst_name || dst_descr
			FROM members
			WHERE table_id = ? AND (name LIKE ? ESCAPE '\' OR dst_name LIKE ? ESCAPE '\')
		)
		ORDER BY kind, src
		LIMIT ?`,
		opts.TableID, pattern, pattern,
		opts.TableID, pattern, pattern,
		opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Kind, &r.Src, &r.Dst); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
