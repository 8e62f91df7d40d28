package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/awremap/internal/cache"
	"github.com/Zuo-Peng/awremap/internal/config"
)

func lookupCmd() *cobra.Command {
	var mf mappingFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "lookup <mappings> <query>",
		Short: "Search class and member mappings by name",
		Long: `Lookup searches the mapping cache for classes and members whose source or
target name contains <query>. Output is TSV: kind, source, target.

The mapping file is imported into the cache first if needed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := cache.Open(cfg.CacheDB)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer db.Close()

			res, err := cache.Sync(db, args[0], mf.options(cfg), mappingLoader(mf.showProgress(cfg)))
			if err != nil {
				return fmt.Errorf("load mappings: %w", err)
			}

			results, err := db.Search(cache.SearchOptions{
				TableID: res.Table.ID,
				Query:   args[1],
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\t%s\n", r.Kind, r.Src, r.Dst)
			}
			if len(results) == 0 {
				mf.logf("no mappings match %q\n", args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mf.from, "from", "", "Source namespace")
	cmd.Flags().StringVar(&mf.to, "to", "", "Target namespace")
	cmd.Flags().BoolVarP(&mf.quiet, "quiet", "q", false, "Only print results and errors")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Max results")
	return cmd
}
