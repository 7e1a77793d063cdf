package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorexsearch/sorex/internal/binfmt"
	"github.com/sorexsearch/sorex/internal/docstore"
	"github.com/sorexsearch/sorex/internal/fuzzy"
	"github.com/sorexsearch/sorex/internal/postings"
	"github.com/sorexsearch/sorex/internal/sarray"
	"github.com/sorexsearch/sorex/internal/sections"
	"github.com/sorexsearch/sorex/internal/vocab"
)

// writeFixtureIndex builds a tiny, valid .sorex file under t.TempDir() and
// returns its path.
func writeFixtureIndex(t *testing.T) string {
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

	path := filepath.Join(t.TempDir(), "fixture.sorex")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}
