// Package hostcache fronts a TierSearcher's Search method with a bounded
// LRU cache keyed by (query, limit), so a doc-site host serving the same
// handful of popular queries repeatedly doesn't re-run the three-tier
// pipeline on every request.
package hostcache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sorexsearch/sorex/pkg/sorex"
)

type key struct {
	query string
	limit int
}

// Cache is a bounded LRU of query results.
type Cache struct {
	lru *lru.Cache[key, []sorex.SearchResult]
}

// New creates a Cache holding at most capacity distinct (query, limit)
// entries. capacity must be positive.
func New(capacity int) (*Cache, error) {
	c, err := lru.New[key, []sorex.SearchResult](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Search returns searcher.Search(query, limit), serving from cache when
// the exact (query, limit) pair was seen since the last Reset.
func (c *Cache) Search(searcher *sorex.TierSearcher, query string, limit int) []sorex.SearchResult {
	k := key{query: query, limit: limit}
	if results, ok := c.lru.Get(k); ok {
		return results
	}
	results := searcher.Search(query, limit)
	c.lru.Add(k, results)
	return results
}

// Reset discards every cached entry (called after a hostwatch-triggered
// index reload, since a stale searcher's results are no longer valid).
func (c *Cache) Reset() {
	c.lru.Purge()
}

// Len reports how many entries are currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// String implements fmt.Stringer for debug logging.
func (c *Cache) String() string {
	return fmt.Sprintf("hostcache{entries=%d}", c.lru.Len())
}
