package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"appdeck/internal/rank"

	"github.com/spf13/cobra"
)

var (
	flagSearchLimit  int
	flagSearchPaths  bool
	flagSearchCached bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Print applications ranked against a query",
	Long: `Print applications ranked against a query. With no query, lists every
application, most recently launched first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		query := strings.Join(args, " ")
		records := e.candidates(context.Background(), flagSearchCached)
		results := rank.Limit(rank.Rank(records, query), flagSearchLimit)
		if len(results) == 0 {
			fmt.Fprintf(os.Stderr, "No applications match %q\n", query)
			return nil
		}
		printRecords(os.Stdout, results, flagSearchPaths)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 20, "maximum results (0 = all)")
	searchCmd.Flags().BoolVar(&flagSearchPaths, "paths", false, "print bundle paths")
	searchCmd.Flags().BoolVar(&flagSearchCached, "cached", false, "use the snapshot cache instead of scanning")
	rootCmd.AddCommand(searchCmd)
}
