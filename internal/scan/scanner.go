package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Rel   string // relative to the scanned root
	Mtime int64
	Size  int64
}

var extensions = map[string]bool{
	".accesswidener": true,
	".aw":            true,
}

// IsWidener reports whether path has an access widener extension.
func IsWidener(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ScanDir returns every access widener file under root, sorted by relative path.
func ScanDir(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || base == "build") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsWidener(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		files = append(files, FileInfo{
			Path:  path,
			Rel:   rel,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, err
}
