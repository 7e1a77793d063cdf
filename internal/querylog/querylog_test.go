package querylog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLog_IncrementsCount(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Log(Record{QueryText: "search", ResultCount: 3, TopTier: 1, Duration: 2 * time.Millisecond, LoggedAt: time.Now()}))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestZeroResultQueries_ReturnsOnlyEmptyHits(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Log(Record{QueryText: "found", ResultCount: 2, LoggedAt: time.Now()}))
	require.NoError(t, s.Log(Record{QueryText: "missing", ResultCount: 0, LoggedAt: time.Now()}))

	zeros, err := s.ZeroResultQueries(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"missing"}, zeros)
}

func TestTopQueries_RanksByFrequency(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Log(Record{QueryText: "popular", ResultCount: 1, LoggedAt: time.Now()}))
	}
	require.NoError(t, s.Log(Record{QueryText: "rare", ResultCount: 1, LoggedAt: time.Now()}))

	top, err := s.TopQueries(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"popular"}, top)
}
