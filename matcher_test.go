package streamxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, bufferCap int, patterns ...string) *streamMatcher {
	t.Helper()
	trie, err := buildPatternTrie(patterns)
	require.NoError(t, err)
	return newStreamMatcher(trie, bufferCap, nil)
}

func TestStreamMatcherEmitsTextBeforeAndPatternHit(t *testing.T) {
	m := newTestMatcher(t, 0, "<a>", "</a>")

	results := m.feed("hello <a>")
	require.Len(t, results, 1)
	require.Equal(t, matchPatternHit, results[0].kind)
	require.Equal(t, "<a>", results[0].pattern)
	require.Equal(t, "hello ", strings.Join(results[0].prefix, ""))
}

func TestStreamMatcherSplitsPatternAcrossChunkBoundary(t *testing.T) {
	m := newTestMatcher(t, 0, "<a>", "</a>")

	// the live "<" prefix at the tail is withheld, but everything before
	// it is already safe to flush as text even though the pattern itself
	// straddles the chunk boundary.
	first := m.feed("text <")
	require.Len(t, first, 1)
	require.Equal(t, matchTextRun, first[0].kind)
	require.Equal(t, "text ", strings.Join(first[0].prefix, ""))

	results := m.feed("a>more")
	require.GreaterOrEqual(t, len(results), 1)
	require.Equal(t, matchPatternHit, results[0].kind)
	require.Equal(t, "<a>", results[0].pattern)
	require.Empty(t, strings.Join(results[0].prefix, ""))
}

func TestStreamMatcherGreedyLongestMatchAcrossChunks(t *testing.T) {
	// "<a" is a live prefix of "<ab>"; the matcher must not commit the
	// shorter "<a>" hit until it learns "<ab>" is no longer reachable.
	m := newTestMatcher(t, 0, "<a>", "<ab>")

	require.Empty(t, m.feed("<a"))
	results := m.feed("b>")
	require.Len(t, results, 1)
	require.Equal(t, matchPatternHit, results[0].kind)
	require.Equal(t, "<ab>", results[0].pattern)
}

func TestStreamMatcherCommitsShorterPatternWhenLongerBecomesUnreachable(t *testing.T) {
	// "ab" is a literal prefix of "abc": matching "ab" must be withheld
	// since "abc" may still be reachable.
	m := newTestMatcher(t, 0, "ab", "abc")

	require.Empty(t, m.feed("ab"))
	// 'x' cannot continue "abc", forcing the withheld "ab" to commit; the
	// trailing 'x' itself then flushes separately as plain text.
	results := m.feed("x")
	require.NotEmpty(t, results)
	require.Equal(t, matchPatternHit, results[0].kind)
	require.Equal(t, "ab", results[0].pattern)
}

func TestStreamMatcherTextRunPreservesChunkBoundaries(t *testing.T) {
	m := newTestMatcher(t, 0, "<a>")

	results := m.feed("hello world, no tags here")
	// no pattern anywhere in sight and no live prefix: each chunk flushes
	// as a TextRun as soon as it is fed, as its own fragment.
	more := m.feed(" still text")
	all := append(results, more...)
	var frags []string
	for _, r := range all {
		require.Equal(t, matchTextRun, r.kind)
		frags = append(frags, r.prefix...)
	}
	require.Equal(t, []string{"hello world, no tags here", " still text"}, frags)
}

func TestStreamMatcherForcesCommitOnBufferOverflow(t *testing.T) {
	// "a" is a live prefix of the long run "aaaaaaaaaa"; a small bufferCap
	// forces the withheld single-"a" match to commit before the longer
	// pattern could ever complete.
	m := newTestMatcher(t, 4, "a", "aaaaaaaaaa")

	results := m.feed(strings.Repeat("a", 6))
	require.NotEmpty(t, results)
	require.Equal(t, matchPatternHit, results[0].kind)
	require.Equal(t, "a", results[0].pattern)
	require.Equal(t, "aaaaa", strings.Join(results[0].prefix, ""))
}

func TestStreamMatcherFlushRemainingReturnsBufferedText(t *testing.T) {
	m := newTestMatcher(t, 0, "<a>", "<ab>")

	require.Empty(t, m.feed("<a"))
	require.Equal(t, 2, m.totalBuffered())

	remaining := m.flushRemaining()
	require.Equal(t, "<a", strings.Join(remaining, ""))
	require.Equal(t, 0, m.totalBuffered())
	require.Nil(t, m.pending)
}

func TestStreamMatcherNoMatchOnPartialPrefixWithheldUntilMoreInput(t *testing.T) {
	m := newTestMatcher(t, 0, "<a>")

	results := m.feed("<")
	require.Empty(t, results, "a lone '<' is a live prefix and must not be flushed as text yet")
}
