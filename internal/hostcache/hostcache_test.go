package hostcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorexsearch/sorex/internal/binfmt"
	"github.com/sorexsearch/sorex/internal/docstore"
	"github.com/sorexsearch/sorex/internal/fuzzy"
	"github.com/sorexsearch/sorex/internal/postings"
	"github.com/sorexsearch/sorex/internal/sarray"
	"github.com/sorexsearch/sorex/internal/sections"
	"github.com/sorexsearch/sorex/internal/vocab"
	"github.com/sorexsearch/sorex/pkg/sorex"
)

func buildSearcher(t *testing.T) *sorex.TierSearcher {
	t.Helper()
	terms := []string{"go"}
	vocabBytes := vocab.Encode(terms)
	tablesBytes := docstore.EncodeTables(docstore.Tables{})
	docs := []docstore.Document{
		{DocID: 0, Href: "/intro", Title: "Go Guide", CategoryIdx: docstore.NoIndex, AuthorIdx: docstore.NoIndex, SectionStart: 0, SectionCount: 1},
	}
	docsBytes := docstore.EncodeDocs(docs)
	sectionTableBytes := sections.Encode([]string{"overview"})
	postingsBytes := postings.Encode([]postings.Posting{
		{DocID: 0, Field: postings.FieldTitle, SectionIdx: postings.NoSection, Score: 1000},
	})
	entries := []sarray.Entry{{TermIdx: 0, Offset: 0}, {TermIdx: 0, Offset: 1}}
	suffixBytes := sarray.Encode(entries)
	dfaBytes := fuzzy.Encode(&fuzzy.DFA{K: 2})

	header := &binfmt.Header{Version: binfmt.Version, DocCount: 1, TermCount: 1}
	header.SectionLen[binfmt.SectionVocabulary] = uint32(len(vocabBytes))
	header.SectionLen[binfmt.SectionDictTables] = uint32(len(tablesBytes))
	header.SectionLen[binfmt.SectionPostings] = uint32(len(postingsBytes))
	header.SectionLen[binfmt.SectionSuffixArray] = uint32(len(suffixBytes))
	header.SectionLen[binfmt.SectionDocs] = uint32(len(docsBytes))
	header.SectionLen[binfmt.SectionSectionTable] = uint32(len(sectionTableBytes))
	header.SectionLen[binfmt.SectionLevDFA] = uint32(len(dfaBytes))

	body := binfmt.EncodeHeader(header)
	body = append(body, vocabBytes...)
	body = append(body, tablesBytes...)
	body = append(body, postingsBytes...)
	body = append(body, suffixBytes...)
	body = append(body, docsBytes...)
	body = append(body, sectionTableBytes...)
	body = append(body, dfaBytes...)
	buf := binfmt.EncodeFooter(body)

	layer, err := sorex.FromBytes(buf)
	require.NoError(t, err)
	searcher, err := sorex.FromLayer(layer)
	require.NoError(t, err)
	return searcher
}

func TestSearch_CachesRepeatedQuery(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	searcher := buildSearcher(t)

	first := c.Search(searcher, "go", 10)
	second := c.Search(searcher, "go", 10)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestSearch_DistinctLimitsAreDistinctEntries(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	searcher := buildSearcher(t)

	c.Search(searcher, "go", 10)
	c.Search(searcher, "go", 1)
	assert.Equal(t, 2, c.Len())
}

func TestReset_ClearsCache(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	searcher := buildSearcher(t)

	c.Search(searcher, "go", 10)
	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestNew_EvictsOldestBeyondCapacity(t *testing.T) {
	c, err := New(1)
	require.NoError(t, err)
	searcher := buildSearcher(t)

	c.Search(searcher, "go", 1)
	c.Search(searcher, "go", 2)
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.lru.Contains(key{query: "go", limit: 1}))
	assert.True(t, c.lru.Contains(key{query: "go", limit: 2}))
}
