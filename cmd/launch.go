package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"appdeck/internal/app"
	"appdeck/internal/bundle"
	"appdeck/internal/launch"
	"appdeck/internal/rank"
	"appdeck/internal/walker"

	"github.com/spf13/cobra"
)

var (
	flagLaunchDryRun bool
	flagLaunchCached bool
)

var launchCmd = &cobra.Command{
	Use:   "launch <query-or-path>",
	Short: "Launch the best match for a query, or the bundle at a path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		target := strings.Join(args, " ")
		rec, err := e.resolveTarget(ctx, target, flagLaunchCached)
		if err != nil {
			return err
		}

		opener, err := e.opener()
		if err != nil {
			return err
		}

		if flagLaunchDryRun {
			fmt.Printf("%s\n  %s\n  would run: %s\n", rec.DisplayName, rec.Path, strings.Join(opener.Command(rec.Path), " "))
			return nil
		}

		fmt.Printf("Launching %s\n", rec.DisplayName)
		return launch.NewCoordinator(e.store, opener, launch.NopTerminator{}).Launch(ctx, rec)
	},
}

// resolveTarget treats target as a bundle path when one exists there, and as
// a query otherwise.
func (e *env) resolveTarget(ctx context.Context, target string, cached bool) (app.Record, error) {
	ext := e.cfg.Scan.Extension
	expanded := walker.ExpandPath(target)
	if walker.MatchExt(filepath.Base(expanded), ext) {
		if _, err := os.Stat(expanded); err == nil {
			path, err := walker.Canonical(expanded)
			if err != nil {
				return app.Record{}, err
			}
			readers := bundle.DefaultRegistry()
			name, ok := bundle.Resolve(readers.Lookup(path), path, filepath.Base(path), ext)
			if !ok {
				return app.Record{}, fmt.Errorf("%s is not a launchable application", path)
			}
			return app.NewRecord(path, name, e.store.History(ctx).Lookup(path)), nil
		}
	}

	results := rank.Rank(e.candidates(ctx, cached), target)
	if len(results) == 0 {
		return app.Record{}, fmt.Errorf("no application matches %q", target)
	}
	return results[0], nil
}

func init() {
	launchCmd.Flags().BoolVar(&flagLaunchDryRun, "dry-run", false, "print what would be launched without launching it")
	launchCmd.Flags().BoolVar(&flagLaunchCached, "cached", false, "match against the snapshot cache instead of scanning")
	rootCmd.AddCommand(launchCmd)
}
