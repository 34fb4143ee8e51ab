package cmd

import (
	"context"
	"fmt"
	"os"

	"appdeck/internal/config"
	"appdeck/internal/lock"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagConfigForce bool

func configPath(paths *config.Paths) string {
	if flagConfig != "" {
		return flagConfig
	}
	return paths.ConfigFile()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		path := configPath(paths)
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", path, data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration and create data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		if err := paths.EnsureDirectories(); err != nil {
			return fmt.Errorf("create directories: %w", err)
		}
		path := configPath(paths)
		if _, err := os.Stat(path); err == nil && !flagConfigForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.DefaultConfig().SaveToFile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, snapshot and session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		fmt.Printf("Config:    %s\n", configPath(e.paths))
		fmt.Printf("Roots:     %d\n", len(e.cfg.Scan.Roots))
		fmt.Printf("History:   %d applications\n", len(e.store.History(ctx)))

		if saved := e.store.SnapshotSavedAt(); saved.IsZero() {
			fmt.Println("Snapshot:  none")
		} else {
			fmt.Printf("Snapshot:  %d applications, saved %s\n",
				len(e.indexer.Cached(ctx)), humanize.Time(saved))
		}

		if pid := lock.HolderPID(e.paths.LockFile()); pid > 0 {
			fmt.Printf("Session:   running (pid %d)\n", pid)
		} else {
			fmt.Println("Session:   none")
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}
