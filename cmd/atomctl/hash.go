package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/internal/format"
)

var (
	hashBuckets uint16
)

func init() {
	cmd := newHashCmd()
	cmd.Flags().Uint16Var(&hashBuckets, "buckets", 0, "Bucket count (default from config, normally 37)")
	rootCmd.AddCommand(cmd)
}

func newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <string>",
		Short: "Print the bucket a string hashes to",
		Long: `The hash command prints the bucket index a string lands in. Strings
longer than 255 bytes are clamped first, exactly as the table does.

Example:
  atomctl hash Hello
  atomctl hash Hello --buckets 101 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(args)
		},
	}
	return cmd
}

// HashResult is the JSON form of the hash command.
type HashResult struct {
	String  string `json:"string"`
	Buckets uint16 `json:"buckets"`
	Bucket  uint16 `json:"bucket"`
	IntAtom bool   `json:"int_atom,omitempty"`
}

func runHash(args []string) error {
	s := args[0]
	buckets := hashBuckets
	if buckets == 0 {
		buckets = cfg.Table.Buckets
	}
	if buckets == 0 {
		buckets = format.DefaultTableSize
	}

	key := []byte(s)
	if len(key) > format.MaxAtomLen {
		key = key[:format.MaxAtomLen]
	}
	_, isInt, _ := atom.Str(s).IntAtom()

	res := HashResult{String: s, Buckets: buckets, Bucket: atom.Hash(buckets, key), IntAtom: isInt}
	if jsonOut {
		return printJSON(res)
	}
	if isInt {
		printVerbose("%q is an integer atom and never hashed by the table\n", s)
	}
	printInfo("%d\n", res.Bucket)
	return nil
}
