package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/hostoutput"
)

func newInfoCmd() *cobra.Command {
	var sampleSize int

	cmd := &cobra.Command{
		Use:   "info <index.sorex>",
		Short: "Print summary statistics for a .sorex index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0], sampleSize)
		},
	}
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "How many vocabulary terms to sample")
	return cmd
}

func runInfo(cmd *cobra.Command, path string, sampleSize int) error {
	_, layer, err := loadSearcher(path)
	if err != nil {
		return err
	}

	w := hostoutput.New(cmd.OutOrStdout())
	w.Statusf("", "documents:  %d", layer.DocCount())
	w.Statusf("", "vocabulary: %d terms", layer.TermCount())
	w.Statusf("", "sections:   %d", len(layer.SectionIDs()))

	if sample := layer.VocabularySample(sampleSize); len(sample) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nvocabulary sample:")
		for _, term := range sample {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", term)
		}
	}
	return nil
}
