// Package output writes a file through a temporary sibling that only replaces
// the destination once the caller commits it.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

const bufSize = 64 * 1024

type File struct {
	dest string
	tmp  *os.File
	*bufio.Writer
	done bool
}

// Create opens a temporary file next to dest, creating the directory if needed.
func Create(dest string) (*File, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	_ = os.Chmod(tmp.Name(), 0o644)
	return &File{dest: dest, tmp: tmp, Writer: bufio.NewWriterSize(tmp, bufSize)}, nil
}

// Commit flushes and syncs the temporary file and renames it onto dest.
func (f *File) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	tmpPath := f.tmp.Name()
	if err := f.Flush(); err != nil {
		f.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush %s: %w", f.dest, err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", f.dest, err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", f.dest, err)
	}
	if err := os.Rename(tmpPath, f.dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.dest, err)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
