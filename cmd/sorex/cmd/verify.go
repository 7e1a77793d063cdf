package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/hostoutput"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <index.sorex>",
		Short: "Load a .sorex index and report whether it is valid",
		Long: `Loads the index exactly as a real query would (header, footer,
section offsets, and every section), and reports its document, term, and
section counts (or the InvalidIndex detail on failure) without running any
searches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0])
		},
	}
	return cmd
}

func runVerify(cmd *cobra.Command, path string) error {
	w := hostoutput.New(cmd.OutOrStdout())

	_, layer, err := loadSearcher(path)
	if err != nil {
		w.Error(err.Error())
		return fmt.Errorf("verify failed: %w", err)
	}

	w.Success(fmt.Sprintf(
		"%s is a valid index: %d documents, %d terms, %d sections",
		path, layer.DocCount(), layer.TermCount(), len(layer.SectionIDs()),
	))
	return nil
}
