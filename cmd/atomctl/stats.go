package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/segment"
)

var (
	statsCount  int
	statsPrefix string
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().IntVar(&statsCount, "count", 1000, "Number of distinct names to add")
	cmd.Flags().StringVar(&statsPrefix, "prefix", "atom_", "Prefix for generated names")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Load generated names and show table statistics",
		Long: `The stats command adds --count generated names to a fresh global table
and reports bucket distribution together with segment occupancy. Loading stops
early when the segment is full.

Example:
  atomctl stats --count 2000
  atomctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	return cmd
}

// LoadStats is the JSON form of the stats command.
type LoadStats struct {
	Requested int             `json:"requested"`
	Added     int             `json:"added"`
	Table     atom.TableStats `json:"table"`
	Segment   segment.Stats   `json:"segment"`
}

func runStats() error {
	if statsCount < 0 {
		return fmt.Errorf("--count must not be negative")
	}
	sess, err := newSession(cfg.SegmentOptions(), cfg.Table.Buckets)
	if err != nil {
		return err
	}
	defer sess.Close()

	global := sess.segments[globalSelector]
	st := LoadStats{Requested: statsCount}
	for i := range statsCount {
		if sess.api.GlobalAddAtomA(atom.Str(fmt.Sprintf("%s%d", statsPrefix, i))) == 0 {
			printVerbose("Segment full after %d names\n", i)
			break
		}
		st.Added++
	}

	tbl, err := sess.api.Registry().Global(false)
	if err != nil {
		return err
	}
	if st.Table, err = tbl.Stats(); err != nil {
		return err
	}
	st.Segment = global.Stats()

	if jsonOut {
		return printJSON(st)
	}

	printInfo("\nAtom Table Statistics\n")
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Table:\n")
	printInfo("  Names added: %s of %s\n", formatNumber(int64(st.Added)), formatNumber(int64(st.Requested)))
	printInfo("  Buckets: %d (%d empty)\n", st.Table.Buckets, st.Table.EmptyBuckets)
	printInfo("  Entries: %s\n", formatNumber(int64(st.Table.Entries)))
	printInfo("  References: %s\n", formatNumber(int64(st.Table.References)))
	printInfo("  Longest chain: %d\n", st.Table.LongestChain)
	if st.Table.Buckets > 0 {
		printInfo("  Average chain: %.2f\n", float64(st.Table.Entries)/float64(st.Table.Buckets))
	}
	printInfo("\n")

	printInfo("Segment:\n")
	printInfo("  Size: %s (%s bytes)\n", formatBytes(int64(st.Segment.Size)), formatNumber(int64(st.Segment.Size)))
	printInfo("  Cells: %d used, %d free\n", st.Segment.UsedCells, st.Segment.FreeCells)
	printInfo("  Used: %s\n", formatBytes(int64(st.Segment.UsedBytes)))
	printInfo("  Free: %s (largest %s)\n", formatBytes(int64(st.Segment.FreeBytes)), formatBytes(int64(st.Segment.LargestFree)))
	printInfo("  Allocs: %d, grows: %d, relocations: %d\n", st.Segment.Allocs, st.Segment.Grows, st.Segment.Relocations)
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
