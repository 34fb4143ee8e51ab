package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagScanWorkers int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan application folders and refresh the snapshot cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if flagScanWorkers > 0 {
			e.cfg.Scan.Workers = flagScanWorkers
			if err := e.buildIndexer(); err != nil {
				return err
			}
		}

		fmt.Printf("Scanning %d roots...\n", len(e.cfg.Scan.Roots))
		_, stats := e.indexer.Index(context.Background(), nil)

		fmt.Printf("\nDone in %s (scan %s)\n", stats.Elapsed.Round(time.Millisecond), stats.ScanID)
		fmt.Printf("  Roots:       %d scanned, %d skipped\n", stats.RootsScanned, stats.RootsSkipped)
		fmt.Printf("  Entries:     %d listed, %d from registered lookup\n", stats.Entries, stats.Registered)
		fmt.Printf("  Duplicates:  %d\n", stats.Duplicates)
		fmt.Printf("  Dropped:     %d\n", stats.Dropped)
		fmt.Printf("  Apps:        %d\n", stats.Candidates)
		if e.cfg.Cache.Snapshot {
			fmt.Println("  Snapshot:    updated")
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&flagScanWorkers, "workers", 0, "name resolution workers (default from config, 0 = NumCPU)")
	rootCmd.AddCommand(scanCmd)
}
