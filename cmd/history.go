package cmd

import (
	"context"
	"fmt"
	"os"

	"appdeck/internal/walker"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently launched applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.store.Recent(context.Background(), flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No launches recorded yet.")
			return nil
		}
		for _, en := range entries {
			fmt.Printf("%s  %s\n", runewidth.FillRight(age(en.LastLaunched), 16), en.Path)
		}
		return nil
	},
}

var historyForgetCmd = &cobra.Command{
	Use:   "forget <path>",
	Short: "Remove one application from history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		path := walker.ExpandPath(args[0])
		if canonical, err := walker.Canonical(path); err == nil {
			path = canonical
		}
		if err := e.store.Forget(context.Background(), path); err != nil {
			return err
		}
		fmt.Printf("Forgot %s\n", path)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all launch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.ClearHistory(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "History cleared.")
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "maximum entries (0 = all)")
	historyCmd.AddCommand(historyForgetCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
