package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/hostoutput"
	"github.com/sorexsearch/sorex/pkg/sorex"
)

type searchOptions struct {
	limit  int
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <index.sorex> <query>",
		Short: "Query a .sorex index from the command line",
		Long: `Run the three-tier search pipeline (exact, prefix, fuzzy) against a
.sorex index and print the ranked results.

Examples:
  sorex search docs.sorex "getting started"
  sorex search docs.sorex "api" --format json --limit 5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args[1:], " ")
			return runSearch(cmd, args[0], query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}

type searchResultJSON struct {
	Href      string  `json:"href"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Tier      int     `json:"tier"`
	MatchType int     `json:"match_type"`
	Section   string  `json:"section,omitempty"`
}

func runSearch(cmd *cobra.Command, indexPath, query string, opts searchOptions) error {
	searcher, layer, err := loadSearcher(indexPath)
	if err != nil {
		return err
	}
	sectionIDs := layer.SectionIDs()

	docs := make(map[uint32]sorex.Document)
	for _, d := range searcher.Docs() {
		docs[d.DocID] = d
	}

	results := searcher.Search(query, opts.limit)

	if opts.format == "json" {
		out := make([]searchResultJSON, 0, len(results))
		for _, r := range results {
			out = append(out, toJSONResult(r, docs[r.DocID], sectionIDs))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := hostoutput.New(cmd.OutOrStdout())
	if len(results) == 0 {
		w.Warning("no results")
		return nil
	}
	for i, r := range results {
		doc := docs[r.DocID]
		section := ""
		if r.SectionIdx != sorex.NoSection && int(r.SectionIdx) < len(sectionIDs) {
			section = sectionIDs[r.SectionIdx]
		}
		snippet := ""
		if section != "" {
			snippet = fmt.Sprintf("in section %q", section)
		}
		w.ResultLine(i+1, doc.Href, doc.Title, snippet)
	}
	return nil
}

func toJSONResult(r sorex.SearchResult, doc sorex.Document, sectionIDs []string) searchResultJSON {
	out := searchResultJSON{
		Href:      doc.Href,
		Title:     doc.Title,
		Score:     r.Score,
		Tier:      int(r.Tier),
		MatchType: int(r.MatchType),
	}
	if r.SectionIdx != sorex.NoSection && int(r.SectionIdx) < len(sectionIDs) {
		out.Section = sectionIDs[r.SectionIdx]
	}
	return out
}
