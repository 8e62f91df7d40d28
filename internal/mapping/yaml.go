package mapping

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlFile is a hand-written two-namespace mapping:
//
//	namespaces: [official, named]
//	classes:
//	  - from: a
//	    to: com/example/Foo
//	    fields:
//	      - {from: b, to: count, desc: I}
//	    methods:
//	      - {from: c, to: apply, desc: (La;)V}
//
// Descriptors are written in the first namespace.
type yamlFile struct {
	Namespaces []string    `yaml:"namespaces"`
	Classes    []yamlClass `yaml:"classes"`
}

type yamlClass struct {
	From    string       `yaml:"from"`
	To      string       `yaml:"to"`
	Fields  []yamlMember `yaml:"fields"`
	Methods []yamlMember `yaml:"methods"`
}

type yamlMember struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Desc string `yaml:"desc"`
}

// defaultNamespaces names the columns of two-column formats without a header.
var defaultNamespaces = []string{"source", "target"}

func readYAML(r io.Reader) (*table, error) {
	var f yamlFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if len(f.Namespaces) == 0 {
		f.Namespaces = defaultNamespaces
	}
	if len(f.Namespaces) != 2 {
		return nil, fmt.Errorf("yaml mappings need exactly 2 namespaces, got %d", len(f.Namespaces))
	}

	t := &table{namespaces: f.Namespaces}
	for i, yc := range f.Classes {
		if yc.From == "" {
			return nil, fmt.Errorf("class %d: missing from", i)
		}
		c := &rawClass{names: []string{yc.From, yc.To}}
		for _, m := range yc.Fields {
			c.fields = append(c.fields, rawMember{desc: m.Desc, names: []string{m.From, m.To}})
		}
		for _, m := range yc.Methods {
			c.methods = append(c.methods, rawMember{desc: m.Desc, names: []string{m.From, m.To}})
		}
		t.classes = append(t.classes, c)
	}
	return t, nil
}
