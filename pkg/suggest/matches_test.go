package suggest

import (
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pangram = "the quick brown fox jumps over the lazy dog"

func newLoaded(t *testing.T, texts ...string) *PrefixMatches {
	t.Helper()
	pm := NewPrefixMatches(trie.New())
	pm.Load(texts...)
	return pm
}

func TestLoad(t *testing.T) {
	pm := NewPrefixMatches(trie.New())
	assert.Equal(t, 8, pm.Load(pangram))
	assert.Equal(t, []string{"brown", "dog", "fox", "jumps", "lazy", "over", "quick", "the"}, slices.Collect(pm.Terms()))

	// same input again changes nothing
	assert.Equal(t, 8, pm.Load(pangram))
}

func TestLoadFiltersAndFolds(t *testing.T) {
	pm := NewPrefixMatches(trie.New())
	n := pm.Load("An ox is BIG", "Hello  World\tagain", "don't 42abc ok")
	assert.Equal(t, 4, n)

	for _, w := range []string{"big", "hello", "world", "again"} {
		ok, err := pm.Contains(w)
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
	for _, w := range []string{"an", "ox", "is", "ok"} {
		ok, err := pm.Contains(w)
		require.NoError(t, err)
		assert.False(t, ok, "%q is too short to load", w)
	}
	assert.Equal(t, 2, pm.Stats()["skippedTokens"])

	weight, ok := pm.Weight("HELLO")
	assert.True(t, ok)
	assert.Equal(t, 5, weight)
}

func TestContainsAndDeleteValidation(t *testing.T) {
	pm := newLoaded(t, pangram)

	_, err := pm.Contains("")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = pm.Delete("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = pm.Contains("fo0")
	assert.ErrorIs(t, err, trie.ErrInvalidCharacter)

	ok, err := pm.Contains("QUICK")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	pm := newLoaded(t, pangram)

	removed, err := pm.Delete("Lazy")
	require.NoError(t, err)
	assert.True(t, removed)
	ok, _ := pm.Contains("lazy")
	assert.False(t, ok)
	assert.Equal(t, 7, pm.Size())

	removed, err = pm.Delete("lazy")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 7, pm.Size())
}

func TestWordsWithPrefix(t *testing.T) {
	pm := newLoaded(t, pangram, "the then there theory thesaurus brow")

	testCases := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"two letters excludes exact match", "br", []string{"brow", "brown"}},
		{"three letters keeps exact match", "the", []string{"the", "then", "theory", "there", "thesaurus"}},
		{"uppercase prefix", "OV", []string{"over"}},
		{"no completions", "zz", []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pm.WordsWithPrefix(tc.prefix)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	pm2 := newLoaded(t, pangram)
	got, err := pm2.WordsWithPrefix("br")
	require.NoError(t, err)
	assert.Equal(t, []string{"brown"}, got)
}

func TestWordsWithPrefixTwoLetterTerm(t *testing.T) {
	tr := trie.New()
	require.NoError(t, tr.Add("go", 2))
	require.NoError(t, tr.Add("god", 3))
	pm := NewPrefixMatches(tr)

	got, err := pm.WordsWithPrefix("go")
	require.NoError(t, err)
	assert.Equal(t, []string{"god"}, got)
}

func TestWordsWithPrefixWindow(t *testing.T) {
	pm := newLoaded(t, pangram, "the then there theory thesaurus")

	testCases := []struct {
		prefix string
		k      int
		want   []string
	}{
		{"ov", 1, []string{}},
		{"ov", 2, []string{"over"}},
		{"th", 1, []string{"the"}},
		{"th", 2, []string{"the", "then"}},
		{"the", 1, []string{"the"}},
		{"the", 3, []string{"the", "then", "there"}},
		{"the", 4, []string{"the", "then", "theory", "there"}},
		{"the", 100, []string{"the", "then", "theory", "there", "thesaurus"}},
	}
	for _, tc := range testCases {
		got, err := pm.WordsWithPrefixWindow(tc.prefix, tc.k)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "prefix=%q k=%d", tc.prefix, tc.k)

		minLen, maxLen := pm.Window(tc.prefix, tc.k)
		for _, w := range got {
			assert.True(t, strings.HasPrefix(w, tc.prefix))
			assert.GreaterOrEqual(t, len(w), minLen)
			assert.LessOrEqual(t, len(w), maxLen)
		}
	}
}

func TestWordsWithPrefixErrors(t *testing.T) {
	pm := newLoaded(t, pangram)

	_, err := pm.WordsWithPrefix("b")
	assert.ErrorIs(t, err, ErrPrefixTooShort)
	_, err = pm.WordsWithPrefix("")
	assert.ErrorIs(t, err, ErrPrefixTooShort)
	_, err = pm.WordsWithPrefixWindow("b", 3)
	assert.ErrorIs(t, err, ErrPrefixTooShort)
	_, err = pm.WordsWithPrefixWindow("br", 0)
	assert.ErrorIs(t, err, ErrNonPositiveWindow)
	_, err = pm.WordsWithPrefixWindow("br", -4)
	assert.ErrorIs(t, err, ErrNonPositiveWindow)
	_, err = pm.WordsWithPrefixWindow("b1", 2)
	assert.ErrorIs(t, err, trie.ErrInvalidCharacter)
}

func TestWindowBounds(t *testing.T) {
	pm := NewPrefixMatches(trie.New())

	testCases := []struct {
		prefix         string
		k              int
		minLen, maxLen int
	}{
		{"ab", 1, 3, 3},
		{"ab", 3, 3, 5},
		{"abc", 1, 3, 3},
		{"abcd", 2, 4, 5},
	}
	for _, tc := range testCases {
		minLen, maxLen := pm.Window(tc.prefix, tc.k)
		assert.Equal(t, tc.minLen, minLen, tc.prefix)
		assert.Equal(t, tc.maxLen, maxLen, tc.prefix)
	}

	_, maxLen := pm.Window("abc", int(^uint(0)>>1))
	assert.Greater(t, maxLen, 3, "huge windows do not overflow")
}

func TestLastLetterBranchIsEnumerated(t *testing.T) {
	pm := newLoaded(t, "fizz fizzy fizzing")

	ok, err := pm.Contains("fizz")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := pm.WordsWithPrefix("fi")
	require.NoError(t, err)
	assert.Equal(t, []string{"fizz", "fizzing", "fizzy"}, got)
}

func TestCacheStaysConsistent(t *testing.T) {
	pm := newLoaded(t, pangram)

	first, err := pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	assert.Equal(t, []string{"quick"}, first)

	// callers may mutate what they get back
	first[0] = "mutated"
	again, err := pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	assert.Equal(t, []string{"quick"}, again)
	assert.Equal(t, 1, pm.Stats()["cacheHits"])

	pm.Load("quiet quill")
	got, err := pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	assert.Equal(t, []string{"quick", "quiet", "quill"}, got)

	_, err = pm.Delete("quiet")
	require.NoError(t, err)
	got, err = pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	assert.Equal(t, []string{"quick", "quill"}, got)
}

func TestCacheDisabled(t *testing.T) {
	pm := NewPrefixMatchesWithOptions(trie.New(), Options{CacheSize: -1})
	pm.Load(pangram)

	for range 2 {
		got, err := pm.WordsWithPrefix("la")
		require.NoError(t, err)
		assert.Equal(t, []string{"lazy"}, got)
	}
	stats := pm.Stats()
	assert.Equal(t, 8, stats["totalWords"])
	_, hasCache := stats["cacheHits"]
	assert.False(t, hasCache)
}

func TestCompleterInterface(t *testing.T) {
	var c Completer = newLoaded(t, pangram)
	assert.Equal(t, 8, c.Size())
}

func TestCacheFollowsDirectTrieChanges(t *testing.T) {
	tr := trie.New()
	pm := NewPrefixMatches(tr)
	pm.Load("quick")

	got, err := pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	require.Equal(t, []string{"quick"}, got)

	require.NoError(t, tr.Add("quiet", 5))
	got, err = pm.WordsWithPrefix("qu")
	require.NoError(t, err)
	assert.Equal(t, []string{"quick", "quiet"}, got)

	removed, err := tr.Delete("quick")
	require.NoError(t, err)
	require.True(t, removed)
	got, err = pm.WordsWithPrefixWindow("qu", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet"}, got)

	// answers still come from the cache while the trie stays put
	hits := pm.Stats()["cacheHits"]
	_, err = pm.WordsWithPrefixWindow("qu", 3)
	require.NoError(t, err)
	assert.Equal(t, hits+1, pm.Stats()["cacheHits"])
}
