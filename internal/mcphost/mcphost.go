// Package mcphost exposes a sorex TierSearcher as an MCP server, so AI
// coding assistants and other MCP clients can query a static document
// collection's full-text index as a tool call.
package mcphost

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sorexsearch/sorex/internal/querylog"
	"github.com/sorexsearch/sorex/pkg/sorex"
	"github.com/sorexsearch/sorex/pkg/version"
)

// SearchInput is the input schema for the "search_docs" tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the full-text search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// SearchOutput is the output schema for the "search_docs" tool.
type SearchOutput struct {
	Results []SearchHit `json:"results"`
}

// SearchHit is one ranked result returned to the MCP client.
type SearchHit struct {
	Href      string  `json:"href"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Tier      int     `json:"tier"`
	MatchType int     `json:"match_type"`
	Section   string  `json:"section,omitempty"`
}

// Server wraps an MCP server around a TierSearcher.
type Server struct {
	mcp      *mcp.Server
	searcher *sorex.TierSearcher
	docs     map[uint32]sorex.Document
	sections []string
	logger   *slog.Logger
	queries  *querylog.Store // optional; nil disables logging
}

// New constructs a Server over searcher. logger and queries may be nil.
func New(searcher *sorex.TierSearcher, sectionIDs []string, logger *slog.Logger, queries *querylog.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	docs := make(map[uint32]sorex.Document)
	for _, d := range searcher.Docs() {
		docs[d.DocID] = d
	}

	s := &Server{
		searcher: searcher,
		docs:     docs,
		sections: sectionIDs,
		logger:   logger,
		queries:  queries,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "sorex", Version: version.Version}, nil)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_docs",
		Description: "Full-text search over the indexed document collection. Returns ranked matches with the document title, href, and the section the match fell in.",
	}, s.searchHandler)
	return s
}

// Run serves MCP requests over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) searchHandler(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	start := time.Now()
	results := s.searcher.Search(input.Query, limit)
	took := time.Since(start)

	out := SearchOutput{Results: make([]SearchHit, 0, len(results))}
	for _, r := range results {
		doc := s.docs[r.DocID]
		hit := SearchHit{
			Href:      doc.Href,
			Title:     doc.Title,
			Score:     r.Score,
			Tier:      int(r.Tier),
			MatchType: int(r.MatchType),
		}
		if r.SectionIdx != sorex.NoSection && int(r.SectionIdx) < len(s.sections) {
			hit.Section = s.sections[r.SectionIdx]
		}
		out.Results = append(out.Results, hit)
	}

	if s.queries != nil {
		tier := 0
		if len(results) > 0 {
			tier = int(results[0].Tier)
		}
		if err := s.queries.Log(querylogRecord(input.Query, len(out.Results), tier, took)); err != nil {
			s.logger.Warn("failed to log query", slog.String("error", err.Error()))
		}
	}

	return &mcp.CallToolResult{}, out, nil
}

func querylogRecord(query string, count, tier int, took time.Duration) querylog.Record {
	return querylog.Record{
		QueryText:   query,
		ResultCount: count,
		TopTier:     tier,
		Duration:    took,
		LoggedAt:    time.Now(),
	}
}

// ToolInfo describes a registered tool, exposed for tests.
type ToolInfo struct {
	Name        string
	Description string
}

// Tools returns the fixed set of tools this server registers.
func (s *Server) Tools() []ToolInfo {
	return []ToolInfo{
		{Name: "search_docs", Description: "Full-text search over the indexed document collection."},
	}
}
