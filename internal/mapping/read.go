package mapping

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the mapping file at path. A directory is read as an Enigma
// mapping tree.
func Load(path string, opts Options) (*Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loadEnigmaDir(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read parses a mapping stream. Tiny formats are sniffed from the first
// bytes; YAML and Enigma are recognized by the extension of name.
func Read(r io.Reader, name string, opts Options) (*Tree, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, _ := br.Peek(8)

	var (
		t   *table
		err error
	)
	switch {
	case bytes.HasPrefix(head, []byte("v1\t")):
		t, err = readTinyV1(br)
	case bytes.HasPrefix(head, []byte("tiny\t2\t")):
		t, err = readTinyV2(br)
	case isYAML(name):
		t, err = readYAML(br)
	case isEnigma(name):
		t = &table{namespaces: defaultNamespaces}
		err = readEnigma(t, br)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t.build(opts)
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
