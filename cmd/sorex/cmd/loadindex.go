package cmd

import (
	"fmt"
	"os"

	"github.com/sorexsearch/sorex/pkg/sorex"
)

// loadSearcher reads path and builds a TierSearcher over it. Shared by
// every subcommand that queries an index.
func loadSearcher(path string) (*sorex.TierSearcher, *sorex.LoadedLayer, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read index: %w", err)
	}
	layer, err := sorex.FromBytes(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}
	searcher, err := sorex.FromLayer(layer)
	if err != nil {
		return nil, nil, fmt.Errorf("build searcher: %w", err)
	}
	return searcher, layer, nil
}
