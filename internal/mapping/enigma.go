package mapping

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const enigmaExt = ".mapping"

func isEnigma(name string) bool {
	return strings.EqualFold(filepath.Ext(name), enigmaExt)
}

// EnigmaFiles returns every .mapping file under root in lexical order.
func EnigmaFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isEnigma(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// loadEnigmaDir reads an Enigma mapping tree, one top-level class per file
// by convention, into a single table.
func loadEnigmaDir(root string, opts Options) (*Tree, error) {
	paths, err := EnigmaFiles(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrUnknownFormat, enigmaExt, root)
	}

	t := &table{namespaces: defaultNamespaces}
	for _, path := range paths {
		if err := readEnigmaFile(t, path); err != nil {
			return nil, err
		}
	}
	return t.build(opts)
}

func readEnigmaFile(t *table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := readEnigma(t, f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// readEnigma parses the tab indented Enigma format into t:
//
//	CLASS a com/example/Foo
//		FIELD b count I
//		METHOD c apply (La;)V
//			ARG 1 value
//		CLASS d Inner
//
// Nested classes may give a simple name, which is joined to the enclosing
// class with '$'. ARG and COMMENT rows are skipped.
func readEnigma(t *table, r io.Reader) error {
	scanner := newScanner(r)

	// classes by indent depth
	var stack []*rawClass
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		indent := 0
		for indent < len(line) && line[indent] == '\t' {
			indent++
		}
		parts := enigmaFields(line[indent:])
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "CLASS":
			if len(parts) < 2 {
				return fmt.Errorf("line %d: short CLASS row", lineNum)
			}
			if indent > len(stack) {
				return fmt.Errorf("line %d: class nested too deep", lineNum)
			}
			stack = stack[:indent]

			src, dst := parts[1], ""
			if len(parts) > 2 {
				dst = parts[2]
			}
			if indent > 0 {
				outer := stack[indent-1].names
				src, dst = nestedNames(outer[0], target(outer, 1, outer[0]), src, dst)
			}
			c := &rawClass{names: []string{src, dst}}
			t.classes = append(t.classes, c)
			stack = append(stack, c)

		case "FIELD", "METHOD":
			if indent == 0 || indent > len(stack) {
				return fmt.Errorf("line %d: %s outside class", lineNum, parts[0])
			}
			var m rawMember
			switch len(parts) {
			case 3:
				m = rawMember{desc: parts[2], names: []string{parts[1], ""}}
			case 4:
				m = rawMember{desc: parts[3], names: []string{parts[1], parts[2]}}
			default:
				return fmt.Errorf("line %d: malformed %s row", lineNum, parts[0])
			}
			owner := stack[indent-1]
			if parts[0] == "FIELD" {
				owner.fields = append(owner.fields, m)
			} else {
				owner.methods = append(owner.methods, m)
			}
		}
	}
	return scanner.Err()
}

// enigmaFields splits a row on spaces and drops access modifier tokens.
func enigmaFields(s string) []string {
	parts := strings.Fields(s)
	out := parts[:0]
	for _, p := range parts {
		if !strings.HasPrefix(p, "ACC:") {
			out = append(out, p)
		}
	}
	return out
}

// nestedNames qualifies simple inner class names with their outer class.
// An inner class without its own target name follows its renamed outer class.
func nestedNames(outerSrc, outerDst, src, dst string) (string, string) {
	simple := src
	if i := strings.LastIndexByte(src, '$'); i >= 0 {
		simple = src[i+1:]
	}
	if !strings.Contains(src, "/") && !strings.Contains(src, "$") {
		src = outerSrc + "$" + src
	}
	switch {
	case dst == "" && outerDst != outerSrc:
		dst = outerDst + "$" + simple
	case dst != "" && !strings.Contains(dst, "/") && !strings.Contains(dst, "$"):
		dst = outerDst + "$" + dst
	}
	return src, dst
}
