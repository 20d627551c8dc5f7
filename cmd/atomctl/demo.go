package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// demoScript interns the same name twice with different case and a second
// name, then shows the resulting table.
const demoScript = `add global Hello
add global hello
add global World
find global HELLO
add global #1234
name global 1234
dump global
stats global
`

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a short deduplication demo",
		Long: `The demo command adds "Hello", "hello" and "World" to the global table
and prints the table: two entries, with "Hello" holding two references.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	sess, err := newSession(cfg.SegmentOptions(), cfg.Table.Buckets)
	if err != nil {
		return err
	}
	defer sess.Close()

	results, err := sess.Run(strings.NewReader(demoScript))
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		printInfo("%s\n", r.Text())
	}
	return nil
}
