package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"appdeck/internal/app"
	"appdeck/internal/launch"
	"appdeck/internal/session"

	"github.com/spf13/cobra"
)

var flagShellStay bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Line-mode launcher for terminals without a full-screen UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(envOptions{interactive: true})
		if err != nil {
			return err
		}
		defer e.Close()

		opener, err := e.opener()
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess := session.New()
		sess.SetLimit(e.cfg.UI.MaxResults)
		sess.Seed(e.indexer.Cached(ctx))
		startScan(ctx, e, sess)

		done := false
		var term launch.Terminator = launch.TerminatorFunc(func() { done = true })
		if flagShellStay {
			term = launch.NopTerminator{}
		}
		coord := launch.NewCoordinator(e.store, opener, term)

		var shown []app.Record
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("appdeck shell (type to search, /help for commands, /exit to quit)")
		fmt.Println()

		for !done {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())

			switch {
			case line == "/exit" || line == "/quit":
				return nil
			case line == "/help":
				fmt.Println("Commands:")
				fmt.Println("  <text>    - list apps matching text")
				fmt.Println("  /open N   - launch result N from the last list")
				fmt.Println("  /rescan   - scan application folders again")
				fmt.Println("  /exit     - quit")
				continue
			case line == "/rescan":
				startScan(ctx, e, sess)
				fmt.Println("[Scanning...]")
				continue
			case strings.HasPrefix(line, "/open"):
				n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/open")))
				if err != nil || n < 1 || n > len(shown) {
					fmt.Fprintf(os.Stderr, "usage: /open N (1-%d)\n", len(shown))
					continue
				}
				rec := shown[n-1]
				fmt.Printf("Launching %s\n", rec.DisplayName)
				if err := coord.Launch(ctx, rec); err != nil {
					fmt.Fprintf(os.Stderr, "launch: %v\n", err)
				}
				continue
			case strings.HasPrefix(line, "/"):
				fmt.Fprintf(os.Stderr, "unknown command %s (try /help)\n", line)
				continue
			}

			sess.SetQuery(line)
			shown = sess.Results()
			if sess.Scanning() {
				fmt.Println("[Scan in progress, showing cached results]")
			}
			if len(shown) == 0 {
				fmt.Println("No matches.")
				continue
			}
			printRecords(os.Stdout, shown, e.cfg.UI.ShowPaths)
			fmt.Println()
		}

		return scanner.Err()
	},
}

// startScan runs a scan in the background and installs its result unless a
// newer scan was started in the meantime.
func startScan(ctx context.Context, e *env, sess *session.Session) {
	gen := sess.BeginScan()
	go func() {
		e.indexer.Index(ctx, func(records []app.Record) bool {
			return sess.Complete(gen, records)
		})
	}()
}

func init() {
	shellCmd.Flags().BoolVar(&flagShellStay, "stay", false, "keep the shell open after launching")
	rootCmd.AddCommand(shellCmd)
}
