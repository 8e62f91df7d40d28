package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/awremap/internal/cache"
	"github.com/Zuo-Peng/awremap/internal/config"
	"github.com/Zuo-Peng/awremap/internal/mapping"
	"github.com/Zuo-Peng/awremap/internal/progress"
	"github.com/Zuo-Peng/awremap/internal/remap"
	"github.com/Zuo-Peng/awremap/internal/scan"
)

// mappingFlags are shared by every command that loads a mapping file.
type mappingFlags struct {
	from    string
	to      string
	noCache bool
	quiet   bool
}

func (f *mappingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Source namespace (default: first column, or from_namespace in config)")
	cmd.Flags().StringVar(&f.to, "to", "", "Target namespace (default: second column, or to_namespace in config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Parse the mapping file instead of using the mapping cache")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Only print errors")
}

func (f *mappingFlags) options(cfg *config.Config) mapping.Options {
	opts := mapping.Options{From: cfg.FromNamespace, To: cfg.ToNamespace}
	if f.from != "" {
		opts.From = f.from
	}
	if f.to != "" {
		opts.To = f.to
	}
	return opts
}

func (f *mappingFlags) logf(format string, args ...any) {
	if !f.quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// showProgress reports whether progress lines should be drawn.
func (f *mappingFlags) showProgress(cfg *config.Config) bool {
	return !f.quiet && cfg.Progress
}

// mappings is a loaded provider plus whatever keeps it alive.
type mappings struct {
	remap.Provider
	Classes int
	Cached  bool

	db  *cache.DB
	sql *cache.Provider
}

func (m *mappings) Close() error {
	if m.db == nil {
		return nil
	}
	m.sql.Close()
	return m.db.Close()
}

// Err reports lookup failures of a cache-backed provider.
func (m *mappings) Err() error {
	if m.sql == nil {
		return nil
	}
	return m.sql.Err()
}

func loadMappings(cfg *config.Config, path string, f *mappingFlags) (*mappings, error) {
	opts := f.options(cfg)
	load := mappingLoader(f.showProgress(cfg))

	if !cfg.UseCache || f.noCache {
		tree, err := load(path, opts)
		if err != nil {
			return nil, err
		}
		return &mappings{Provider: tree, Classes: tree.ClassCount()}, nil
	}

	db, err := cache.Open(cfg.CacheDB)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	res, err := cache.Sync(db, path, opts, load)
	if err != nil {
		db.Close()
		return nil, err
	}
	p, err := db.Provider(res.Table.ID)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &mappings{Provider: p, Classes: res.Classes, Cached: !res.Updated, db: db, sql: p}, nil
}

// mappingLoader parses a mapping file, drawing a progress line while reading.
// Enigma directories have no single size to report against.
func mappingLoader(show bool) cache.LoadFunc {
	return func(path string, opts mapping.Options) (*mapping.Tree, error) {
		if !show {
			return mapping.Load(path, opts)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			fmt.Fprintln(os.Stderr, "Loading mappings...")
			return mapping.Load(path, opts)
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		r := progress.NewReporter(os.Stderr, "Loading mappings...", info.Size()).Wrap(file)
		return mapping.Read(r, path, opts)
	}
}

// inputs expands a file or directory argument into the wideners to process.
func inputs(path string) ([]scan.FileInfo, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if info.IsDir() {
		files, err := scan.ScanDir(path)
		return files, true, err
	}
	return []scan.FileInfo{{
		Path:  path,
		Rel:   filepath.Base(path),
		Mtime: info.ModTime().Unix(),
		Size:  info.Size(),
	}}, false, nil
}

// remapStream runs the remapper over one input file, reporting progress when
// show is set.
func remapStream(p remap.Provider, in scan.FileInfo, w io.Writer, show bool, opts ...remap.Option) (remap.Stats, error) {
	file, err := os.Open(in.Path)
	if err != nil {
		return remap.Stats{}, err
	}
	defer file.Close()

	var r io.Reader = file
	if show {
		r = progress.NewReporter(os.Stderr, "Remapping "+in.Rel+"...", in.Size).Wrap(file)
	}
	rm := remap.New(p, r, w, opts...)
	if _, err := rm.Remap(); err != nil {
		return rm.Stats(), fmt.Errorf("%s: %w", in.Path, err)
	}
	return rm.Stats(), nil
}
