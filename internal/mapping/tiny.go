package mapping

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// classIndex collects classes by their namespace 0 name so member rows can
// find their owner regardless of row order.
type classIndex struct {
	t      *table
	byName map[string]*rawClass
	// implicit holds owners only seen on member rows
	implicit map[*rawClass]bool
}

func newClassIndex(t *table) *classIndex {
	return &classIndex{t: t, byName: make(map[string]*rawClass), implicit: make(map[*rawClass]bool)}
}

func (ci *classIndex) class(names []string) *rawClass {
	c, ok := ci.byName[names[0]]
	if !ok || ci.implicit[c] {
		if !ok {
			c = &rawClass{}
			ci.byName[names[0]] = c
		}
		ci.t.classes = append(ci.t.classes, c)
		delete(ci.implicit, c)
	}
	c.names = names
	return c
}

func (ci *classIndex) owner(name string) *rawClass {
	if c, ok := ci.byName[name]; ok {
		return c
	}
	c := &rawClass{names: []string{name}}
	ci.byName[name] = c
	ci.implicit[c] = true
	return c
}

// finish appends owners that never got a class row. They carry members but
// are not class mappings themselves.
func (ci *classIndex) finish() {
	for c := range ci.implicit {
		ci.t.orphans = append(ci.t.orphans, c)
	}
}

// readTinyV1 parses the tab separated "v1" format:
//
//	v1	official	named
//	CLASS	a	com/example/Foo
//	FIELD	a	I	b	count
//	METHOD	a	(La;)V	c	apply
func readTinyV1(r io.Reader) (*table, error) {
	scanner := newScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty file")
	}
	header := strings.Split(scanner.Text(), "\t")
	if header[0] != "v1" || len(header) < 3 {
		return nil, fmt.Errorf("invalid tiny v1 header %q", scanner.Text())
	}

	t := &table{namespaces: header[1:]}
	ci := newClassIndex(t)
	n := len(t.namespaces)

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		switch parts[0] {
		case "CLASS":
			if len(parts) < 2 {
				return nil, fmt.Errorf("line %d: short CLASS row", lineNum)
			}
			ci.class(pad(parts[1:], n))
		case "FIELD", "METHOD":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: short %s row", lineNum, parts[0])
			}
			owner := ci.owner(parts[1])
			m := rawMember{desc: parts[2], names: pad(parts[3:], n)}
			if parts[0] == "FIELD" {
				owner.fields = append(owner.fields, m)
			} else {
				owner.methods = append(owner.methods, m)
			}
		}
	}
	ci.finish()
	return t, scanner.Err()
}

// readTinyV2 parses the indented "tiny 2" format. Parameter, variable and
// comment rows are skipped.
func readTinyV2(r io.Reader) (*table, error) {
	scanner := newScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty file")
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 5 || header[0] != "tiny" || header[1] != "2" {
		return nil, fmt.Errorf("invalid tiny v2 header %q", scanner.Text())
	}

	t := &table{namespaces: header[3:]}
	n := len(t.namespaces)
	escaped := false
	inHeader := true

	var cur *rawClass
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		indent := 0
		for indent < len(parts) && parts[indent] == "" {
			indent++
		}
		if indent == len(parts) {
			continue
		}
		parts = parts[indent:]

		if inHeader && indent == 1 {
			if parts[0] == "escaped-names" {
				escaped = true
			}
			continue
		}
		inHeader = false

		unescape := func(names []string) []string {
			names = pad(names, n)
			if escaped {
				for i, s := range names {
					names[i] = unescapeName(s)
				}
			}
			return names
		}

		switch {
		case indent == 0 && parts[0] == "c":
			if len(parts) < 2 {
				return nil, fmt.Errorf("line %d: short class row", lineNum)
			}
			cur = &rawClass{names: unescape(parts[1:])}
			t.classes = append(t.classes, cur)
		case indent == 1 && (parts[0] == "f" || parts[0] == "m"):
			if cur == nil {
				return nil, fmt.Errorf("line %d: member outside class", lineNum)
			}
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: short member row", lineNum)
			}
			desc := parts[1]
			if escaped {
				desc = unescapeName(desc)
			}
			m := rawMember{desc: desc, names: unescape(parts[2:])}
			if parts[0] == "f" {
				cur.fields = append(cur.fields, m)
			} else {
				cur.methods = append(cur.methods, m)
			}
		}
	}
	return t, scanner.Err()
}

// pad returns names with exactly n columns.
func pad(names []string, n int) []string {
	out := make([]string, n)
	copy(out, names)
	return out
}

var tinyEscapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t", `\0`, "\x00")

func unescapeName(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	return tinyEscapes.Replace(s)
}
