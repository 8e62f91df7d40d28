package cache

import (
	"database/sql"
	"fmt"

	"github.com/Zuo-Peng/awremap/internal/mapping"
)

// Provider answers mapping lookups for one cached table with SQL queries.
// Query failures other than "no rows" are treated as misses and kept in Err.
type Provider struct {
	tableID int64
	class   *sql.Stmt
	member  *sql.Stmt
	classes map[string]classHit
	err     error
}

type classHit struct {
	name string
	ok   bool
}

func (d *DB) Provider(tableID int64) (*Provider, error) {
	class, err := d.db.Prepare("SELECT dst FROM classes WHERE table_id = ? AND src = ?")
	if err != nil {
		return nil, fmt.Errorf("prepare class lookup: %w", err)
	}
	member, err := d.db.Prepare(
		`SELECT descr, dst_owner, dst_name, dst_descr FROM members
		 WHERE table_id = ? AND kind = ? AND owner = ? AND name = ? AND descr IN (?, '')
		 ORDER BY descr DESC LIMIT 1`,
	)
	if err != nil {
		class.Close()
		return nil, fmt.Errorf("prepare member lookup: %w", err)
	}
	return &Provider{
		tableID: tableID,
		class:   class,
		member:  member,
		classes: make(map[string]classHit),
	}, nil
}

func (p *Provider) Close() error {
	p.class.Close()
	return p.member.Close()
}

// Err returns the first query error seen by a lookup.
func (p *Provider) Err() error {
	return p.err
}

func (p *Provider) Class(name string) (string, bool) {
	if hit, ok := p.classes[name]; ok {
		return hit.name, hit.ok
	}
	var dst string
	err := p.class.QueryRow(p.tableID, name).Scan(&dst)
	if err != nil && err != sql.ErrNoRows {
		p.fail(err)
		return "", false
	}
	hit := classHit{name: dst, ok: err == nil}
	p.classes[name] = hit
	return hit.name, hit.ok
}

func (p *Provider) Field(owner, name, desc string) (mapping.Member, bool) {
	return p.lookupMember(kindField, owner, name, desc)
}

func (p *Provider) Method(owner, name, desc string) (mapping.Member, bool) {
	return p.lookupMember(kindMethod, owner, name, desc)
}

// lookupMember prefers an exact descriptor match over a row stored without
// one. A descriptorless row takes the caller's descriptor, remapped.
func (p *Provider) lookupMember(kind, owner, name, desc string) (mapping.Member, bool) {
	var (
		m     mapping.Member
		descr string
	)
	err := p.member.QueryRow(p.tableID, kind, owner, name, desc).Scan(&descr, &m.Owner, &m.Name, &m.Desc)
	if err == sql.ErrNoRows {
		return mapping.Member{}, false
	}
	if err != nil {
		p.fail(err)
		return mapping.Member{}, false
	}
	if descr == "" {
		m.Desc = p.RemapDescriptor(desc)
	}
	return m, true
}

func (p *Provider) RemapDescriptor(desc string) string {
	return mapping.RemapDescriptor(desc, p.Class)
}

func (p *Provider) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("mapping lookup: %w", err)
	}
}
