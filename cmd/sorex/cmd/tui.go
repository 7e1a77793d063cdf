package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/tui"
)

func newTUICmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tui <index.sorex>",
		Short: "Interactively search a .sorex index in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, _, err := loadSearcher(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(searcher, limit))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results shown")
	return cmd
}
