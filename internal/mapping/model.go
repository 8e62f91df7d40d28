package mapping

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownFormat    = errors.New("unknown mapping format")
	ErrUnknownNamespace = errors.New("unknown namespace")
)

// Member identifies a field or method: owner class, member name and descriptor,
// all in internal (slash separated) form.
type Member struct {
	Owner string
	Name  string
	Desc  string
}

func (m Member) String() string {
	return m.Owner + "." + m.Name + m.Desc
}

// Options selects the namespace pair a table is built for.
// Empty From means the first namespace in the file, empty To the second.
type Options struct {
	From string
	To   string
}

// table is the namespace-indexed form every reader produces.
// Member descriptors are always expressed in the first namespace.
type table struct {
	namespaces []string
	classes    []*rawClass
	// orphans own members but have no class row of their own
	orphans []*rawClass
}

type rawClass struct {
	names   []string
	fields  []rawMember
	methods []rawMember
}

type rawMember struct {
	desc  string
	names []string
}

type memberKey struct {
	owner string
	name  string
}

// Tree is an in-memory mapping table from one namespace to another.
type Tree struct {
	From string
	To   string

	classes map[string]string
	// explicit marks classes that had their own class row.
	explicit map[string]bool

	fields  map[Member]Member
	methods map[Member]Member
	// members recorded without a descriptor
	fieldsByName  map[memberKey]Member
	methodsByName map[memberKey]Member
}

func newTree(from, to string) *Tree {
	return &Tree{
		From:          from,
		To:            to,
		classes:       make(map[string]string),
		explicit:      make(map[string]bool),
		fields:        make(map[Member]Member),
		methods:       make(map[Member]Member),
		fieldsByName:  make(map[memberKey]Member),
		methodsByName: make(map[memberKey]Member),
	}
}

func nsIndex(namespaces []string, name string, def int) (int, error) {
	if name == "" {
		if def >= len(namespaces) {
			return 0, fmt.Errorf("%w: mapping has %d namespaces", ErrUnknownNamespace, len(namespaces))
		}
		return def, nil
	}
	for i, ns := range namespaces {
		if ns == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (have %v)", ErrUnknownNamespace, name, namespaces)
}

// nameAt returns the name in column i, falling back to column 0 when missing.
func nameAt(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

// target returns the name in column i, falling back to the source name.
func target(names []string, i int, src string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return src
}

func (t *table) build(opts Options) (*Tree, error) {
	from, err := nsIndex(t.namespaces, opts.From, 0)
	if err != nil {
		return nil, err
	}
	to, err := nsIndex(t.namespaces, opts.To, 1)
	if err != nil {
		return nil, err
	}

	tree := newTree(t.namespaces[from], t.namespaces[to])

	// descriptors are stored in namespace 0; translate them into From
	toFrom := make(map[string]string, len(t.classes))
	for _, c := range t.classes {
		toFrom[nameAt(c.names, 0)] = nameAt(c.names, from)
	}
	fromDesc := func(desc string) string {
		return RemapDescriptor(desc, func(n string) (string, bool) {
			s, ok := toFrom[n]
			return s, ok
		})
	}

	for _, c := range t.classes {
		src := nameAt(c.names, from)
		tree.classes[src] = target(c.names, to, src)
		tree.explicit[src] = true
	}

	for _, c := range append(t.classes[:len(t.classes):len(t.classes)], t.orphans...) {
		owner := nameAt(c.names, from)
		for _, f := range c.fields {
			src := nameAt(f.names, from)
			tree.addMember(tree.fields, tree.fieldsByName, owner, src, fromDesc(f.desc), target(f.names, to, src))
		}
		for _, m := range c.methods {
			src := nameAt(m.names, from)
			tree.addMember(tree.methods, tree.methodsByName, owner, src, fromDesc(m.desc), target(m.names, to, src))
		}
	}
	return tree, nil
}

func (t *Tree) addMember(exact map[Member]Member, byName map[memberKey]Member, owner, srcName, srcDesc, dstName string) {
	src := Member{Owner: owner, Name: srcName, Desc: srcDesc}
	dst := Member{Owner: t.className(owner), Name: dstName, Desc: t.RemapDescriptor(srcDesc)}
	if srcDesc == "" {
		byName[memberKey{owner, srcName}] = dst
		return
	}
	exact[src] = dst
}

func (t *Tree) className(src string) string {
	if dst, ok := t.classes[src]; ok && dst != "" {
		return dst
	}
	return src
}

// Class returns the target name of a class that has its own mapping row.
func (t *Tree) Class(name string) (string, bool) {
	if !t.explicit[name] {
		return "", false
	}
	return t.className(name), true
}

func (t *Tree) Field(owner, name, desc string) (Member, bool) {
	return t.lookupMember(t.fields, t.fieldsByName, owner, name, desc)
}

func (t *Tree) Method(owner, name, desc string) (Member, bool) {
	return t.lookupMember(t.methods, t.methodsByName, owner, name, desc)
}

// lookupMember prefers an exact match. A row recorded without a descriptor
// matches any descriptor, which is then remapped for the result.
func (t *Tree) lookupMember(exact map[Member]Member, byName map[memberKey]Member, owner, name, desc string) (Member, bool) {
	if m, ok := exact[Member{Owner: owner, Name: name, Desc: desc}]; ok {
		return m, true
	}
	m, ok := byName[memberKey{owner, name}]
	if !ok {
		return Member{}, false
	}
	m.Desc = t.RemapDescriptor(desc)
	return m, true
}

// RemapDescriptor rewrites every class reference in desc to the target namespace.
func (t *Tree) RemapDescriptor(desc string) string {
	return RemapDescriptor(desc, func(n string) (string, bool) {
		dst, ok := t.classes[n]
		return dst, ok && dst != ""
	})
}

func (t *Tree) ClassCount() int {
	return len(t.explicit)
}

func (t *Tree) MemberCount() int {
	return len(t.fields) + len(t.fieldsByName) + len(t.methods) + len(t.methodsByName)
}

// EachClass calls fn for every mapped class in source-name order.
func (t *Tree) EachClass(fn func(src, dst string)) {
	names := make([]string, 0, len(t.explicit))
	for n := range t.explicit {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fn(n, t.className(n))
	}
}

func (t *Tree) EachField(fn func(src, dst Member)) {
	eachMember(t.fields, t.fieldsByName, fn)
}

func (t *Tree) EachMethod(fn func(src, dst Member)) {
	eachMember(t.methods, t.methodsByName, fn)
}

func eachMember(exact map[Member]Member, byName map[memberKey]Member, fn func(src, dst Member)) {
	srcs := make([]Member, 0, len(exact)+len(byName))
	for m := range exact {
		srcs = append(srcs, m)
	}
	for k := range byName {
		srcs = append(srcs, Member{Owner: k.owner, Name: k.name})
	}
	sort.Slice(srcs, func(i, j int) bool {
		a, b := srcs[i], srcs[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Desc < b.Desc
	})
	for _, src := range srcs {
		if src.Desc == "" {
			fn(src, byName[memberKey{src.Owner, src.Name}])
			continue
		}
		fn(src, exact[src])
	}
}
