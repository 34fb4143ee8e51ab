package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDB     string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "appdeck",
	Short: "Find and launch installed applications from the terminal",
	Long: `appdeck scans your application folders, ranks them as you type and
opens the one you pick. Recently launched apps float to the top.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/appdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default $XDG_DATA_HOME/appdeck/appdeck.db)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")
}
