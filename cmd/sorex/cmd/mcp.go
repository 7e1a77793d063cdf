package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/mcphost"
	"github.com/sorexsearch/sorex/internal/querylog"
)

func newMCPCmd() *cobra.Command {
	var zeroResultLog string

	cmd := &cobra.Command{
		Use:   "mcp <index.sorex>",
		Short: "Serve a .sorex index to AI assistants over MCP",
		Long: `Starts an MCP server over stdio exposing a single search_docs(query,
limit) tool backed by the index's TierSearcher.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, layer, err := loadSearcher(args[0])
			if err != nil {
				return err
			}

			var queries *querylog.Store
			if zeroResultLog != "" {
				queries, err = querylog.Open(zeroResultLog)
				if err != nil {
					return err
				}
				defer queries.Close()
			}

			server := mcphost.New(searcher, layer.SectionIDs(), nil, queries)
			return server.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&zeroResultLog, "query-log", "", "Path to a SQLite file logging queries (for finding zero-result searches)")
	return cmd
}
