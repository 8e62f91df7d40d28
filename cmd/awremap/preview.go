package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/awremap/internal/config"
	"github.com/Zuo-Peng/awremap/internal/remap"
	"github.com/Zuo-Peng/awremap/internal/render"
	"github.com/Zuo-Peng/awremap/internal/scan"
	"github.com/Zuo-Peng/awremap/internal/tui"
)

func previewCmd() *cobra.Command {
	var mf mappingFlags
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "preview <mappings> <input>",
		Short: "Show the lines remap would change",
		Long: `Preview remaps <input> without writing anything. On a terminal it opens an
interactive browser of the changed lines; otherwise it prints a plain diff.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			m, err := loadMappings(cfg, args[0], &mf)
			if err != nil {
				return fmt.Errorf("load mappings: %w", err)
			}
			defer m.Close()

			files, _, err := inputs(args[1])
			if err != nil {
				return err
			}

			isTTY := term.IsTerminal(int(os.Stdout.Fd()))
			if isTTY && !plain && len(files) == 1 {
				changes, err := collectChanges(m, files[0])
				if err != nil {
					return err
				}
				return tui.Run(files[0].Path, changes)
			}

			for _, f := range files {
				changes, err := collectChanges(m, f)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.Changes(changes, render.Options{
					Path:  f.Rel,
					Width: width,
					Color: isTTY,
				}))
			}
			return nil
		},
	}

	mf.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the diff even on a terminal")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap diff lines at this many columns")
	return cmd
}

func collectChanges(m *mappings, f scan.FileInfo) ([]remap.Change, error) {
	var changes []remap.Change
	_, err := remapStream(m, f, io.Discard, false, remap.WithObserver(func(c remap.Change) {
		changes = append(changes, c)
	}))
	if err != nil {
		return nil, err
	}
	return changes, m.Err()
}
