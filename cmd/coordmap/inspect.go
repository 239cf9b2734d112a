package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var transcriptsPath string

	cmd := &cobra.Command{
		Use:   "inspect <transcript-name>",
		Short: "Dump one transcript's position table",
		Long:  "Builds the index and prints the full transcript-to-genome position table for one transcript, one position per line.",
		Example: `  coordmap inspect -t transcripts.tsv TR1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(transcriptsPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&transcriptsPath, "transcripts", "t", "", "transcript table (tsv, optionally gzipped, '-' for stdin)")
	cmd.MarkFlagRequired("transcripts")

	return cmd
}

func runInspect(transcriptsPath, name string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	idx, err := loadIndex(transcriptsPath, false, logger)
	if err != nil {
		return err
	}

	table, ok := idx.Transcript(name)
	if !ok {
		return fmt.Errorf("transcript %q not found", name)
	}

	positions := make([]int64, 0, table.Positions.Len())
	for pos := range table.Positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(w, "# %s\t%s\n", name, table.Chrom)
	for _, pos := range positions {
		fmt.Fprintf(w, "%d\t%s\n", pos, table.Positions[pos])
	}
	return w.Flush()
}
