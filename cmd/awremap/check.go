package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/awremap/internal/config"
	"github.com/Zuo-Peng/awremap/internal/remap"
)

func checkCmd() *cobra.Command {
	var mf mappingFlags

	cmd := &cobra.Command{
		Use:   "check <mappings> <input>",
		Short: "Dry run: report what remap would do and list entries without a mapping",
		Args:  cobra.ExactArgs(2),
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

			out := cmd.OutOrStdout()
			var total remap.Stats
			for _, f := range files {
				var misses []remap.Change
				stats, err := remapStream(m, f, io.Discard, false, remap.WithObserver(func(c remap.Change) {
					if c.Outcome == remap.Missed {
						misses = append(misses, c)
					}
				}))
				if err != nil {
					return err
				}
				if err := m.Err(); err != nil {
					return err
				}
				total.Add(stats)

				fmt.Fprintf(out, "%s\t%s\n", f.Rel, stats)
				for _, c := range misses {
					fmt.Fprintf(out, "  line %d: %s: %s\n", c.Line, c.Kind, c.Before)
				}
			}
			if len(files) > 1 {
				fmt.Fprintf(out, "total\t%s\n", total)
			}
			return nil
		},
	}

	mf.register(cmd)
	return cmd
}
