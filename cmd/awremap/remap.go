package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/awremap/internal/config"
	"github.com/Zuo-Peng/awremap/internal/output"
	"github.com/Zuo-Peng/awremap/internal/progress"
	"github.com/Zuo-Peng/awremap/internal/remap"
	"github.com/Zuo-Peng/awremap/internal/scan"
)

func remapCmd() *cobra.Command {
	var mf mappingFlags

	cmd := &cobra.Command{
		Use:   "remap <mappings> <input> <output>",
		Short: "Remap an access widener (or a directory of them) into another namespace",
		Long: `Remap rewrites the class names, member names and descriptors of an access
widener using a mapping file (tiny v1, tiny v2 or YAML).

If <input> is a directory, every *.accesswidener and *.aw file below it is
remapped to the same relative path under <output>. An output file is only
replaced once its input was remapped successfully.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			start := time.Now()
			m, err := loadMappings(cfg, args[0], &mf)
			if err != nil {
				return fmt.Errorf("load mappings: %w", err)
			}
			defer m.Close()
			cached := ""
			if m.Cached {
				cached = " (cached)"
			}
			mf.logf("\nLoaded %d class mappings in %s%s\n", m.Classes, progress.Since(start), cached)

			files, isDir, err := inputs(args[1])
			if err != nil {
				return err
			}

			start = time.Now()
			var total remap.Stats
			for _, f := range files {
				dest := args[2]
				if isDir {
					dest = filepath.Join(args[2], f.Rel)
				}
				stats, err := remapFile(m, f, dest, mf.showProgress(cfg))
				if err != nil {
					return err
				}
				total.Add(stats)
				if isDir {
					mf.logf("\n  %s (%s): %s\n", f.Rel, humanize.Bytes(uint64(f.Size)), stats)
				}
			}

			mf.logf("\nRemapped %d entries in %s\n", total.Entries, progress.Since(start))
			mf.logf("  %s\n", total)
			if len(files) == 0 {
				mf.logf("  WARN: no access widener files under %s\n", args[1])
			}
			return nil
		},
	}

	mf.register(cmd)
	return cmd
}

// remapFile remaps in into dest. dest is left untouched on any failure.
func remapFile(m *mappings, in scan.FileInfo, dest string, show bool) (remap.Stats, error) {
	out, err := output.Create(dest)
	if err != nil {
		return remap.Stats{}, err
	}
	stats, err := remapStream(m, in, out.Writer, show)
	if err == nil {
		err = m.Err()
	}
	if err != nil {
		out.Abort()
		return stats, err
	}
	return stats, out.Commit()
}
