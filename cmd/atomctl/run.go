package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run an atom script",
		Long: `The run command executes a line-oriented script against a fresh set of
segments. Segment 1 holds the global table. Other selectors are created the
first time they are named.

Commands:
  init   <sel> [buckets]          create a table in a segment
  add    <sel|global> <name>      intern a name (int:N passes a raw integer)
  find   <sel|global> <name>      look a name up
  delete <sel|global> <atom>      release one reference
  name   <sel|global> <atom> [n]  read a name into an n-byte buffer
  dump   <sel|global>             list every entry
  stats  <sel|global>             table statistics

Example:
  printf 'add global Hello\nadd global HELLO\ndump global\n' | atomctl run
  atomctl run script.atoms --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
	return cmd
}

func runScript(args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
		printVerbose("Running script: %s\n", args[0])
	}

	sess, err := newSession(cfg.SegmentOptions(), cfg.Table.Buckets)
	if err != nil {
		return err
	}
	defer sess.Close()

	results, runErr := sess.Run(in)
	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
		return runErr
	}
	for _, r := range results {
		printInfo("%s\n", r.Text())
	}
	return runErr
}
