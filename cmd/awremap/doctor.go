package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/awremap/internal/cache"
	"github.com/Zuo-Peng/awremap/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config and mapping cache, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Config ===")
			cfgPath, err := config.Path()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if _, err := os.Stat(cfgPath); err != nil {
				fmt.Fprintf(out, "  %s (not found, using defaults)\n", cfgPath)
			} else {
				fmt.Fprintf(out, "  %s (OK)\n", cfgPath)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			fmt.Fprintf(out, "  Namespaces: from=%s to=%s\n", orDefault(cfg.FromNamespace, "(first)"), orDefault(cfg.ToNamespace, "(second)"))
			fmt.Fprintf(out, "  Cache: %t  Progress: %t\n", cfg.UseCache, cfg.Progress)

			fmt.Fprintln(out, "\n=== Mapping cache ===")
			fmt.Fprintf(out, "  Path: %s\n", cfg.CacheDB)
			info, err := os.Stat(cfg.CacheDB)
			if os.IsNotExist(err) {
				fmt.Fprintln(out, "  Status: NOT FOUND (created on first remap)")
				return nil
			}

			db, err := cache.Open(cfg.CacheDB)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer db.Close()

			tables, err := db.Tables()
			if err != nil {
				return fmt.Errorf("list tables: %w", err)
			}
			classes, err := db.ClassCount(0)
			if err != nil {
				return fmt.Errorf("count classes: %w", err)
			}
			members, err := db.MemberCount(0)
			if err != nil {
				return fmt.Errorf("count members: %w", err)
			}
			fmt.Fprintf(out, "  Tables:  %d\n", len(tables))
			fmt.Fprintf(out, "  Classes: %d\n", classes)
			fmt.Fprintf(out, "  Members: %d\n", members)

			for _, t := range tables {
				n, err := db.ClassCount(t.ID)
				if err != nil {
					return err
				}
				status := "OK"
				if _, err := os.Stat(t.Path); err != nil {
					status = "MISSING (pruned on next sync)"
				}
				fmt.Fprintf(out, "  - %s [%s -> %s] %d classes, loaded %s: %s\n",
					t.Path, orDefault(t.From, "(first)"), orDefault(t.To, "(second)"), n, t.LoadedAt, status)
			}

			if info != nil {
				fmt.Fprintf(out, "\n=== Cache size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}
			return nil
		},
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
