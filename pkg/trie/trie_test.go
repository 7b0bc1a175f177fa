package trie

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeCount counts every node reachable from the root, the root included.
func nodeCount(n *node) int {
	if n == nil {
		return 0
	}
	c := 1
	for _, child := range n.children {
		c += nodeCount(child)
	}
	return c
}

func collectAll(t *testing.T, tr *Trie, prefix string) []string {
	t.Helper()
	seq, err := tr.WordsWithPrefix(prefix)
	require.NoError(t, err)
	return slices.Collect(seq)
}

func TestTrie_AddAndContains(t *testing.T) {
	tr := New()
	words := []string{"the", "quick", "brown", "fox", "a", "zzz", "then"}
	for _, w := range words {
		require.NoError(t, tr.Add(w, len(w)))
	}

	for _, w := range words {
		ok, err := tr.Contains(w)
		require.NoError(t, err)
		assert.True(t, ok, "Contains(%q)", w)
	}

	testCases := []struct {
		term string
		want bool
	}{
		{"th", false},
		{"thenx", false},
		{"qui", false},
		{"b", false},
		{"", false},
	}
	for _, tc := range testCases {
		ok, err := tr.Contains(tc.term)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "Contains(%q)", tc.term)
	}
}

func TestTrie_AddOverwrites(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("word", 4))
	before := nodeCount(tr.root)
	require.NoError(t, tr.Add("word", 40))

	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, before, nodeCount(tr.root))
	w, ok, err := tr.Get("word")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 40, w)
}

func TestTrie_AddInvalidCharacter(t *testing.T) {
	testCases := []struct {
		name  string
		term  string
		nodes int
	}{
		{"leading digit", "1abc", 1},
		{"uppercase in middle", "abCd", 3},
		{"space", "ab cd", 3},
		{"unicode", "café", 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := New()
			err := tr.Add(tc.term, 1)
			require.ErrorIs(t, err, ErrInvalidCharacter)
			// nodes for the valid leading characters are kept
			assert.Equal(t, tc.nodes, nodeCount(tr.root))
			assert.Equal(t, 0, tr.Size())
		})
	}
}

func TestTrie_UniformValidation(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("abc", 3))

	_, err := tr.Contains("ab1")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = tr.Delete("a-c")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = tr.WordsWithPrefix("A")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	_, _, err = tr.Get("{")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	assert.NoError(t, Validate("abcxyz"))
	assert.ErrorIs(t, Validate("abc`"), ErrInvalidCharacter)
}

func TestTrie_Delete(t *testing.T) {
	tr := New()
	for _, w := range []string{"tea", "ten", "team", "to"} {
		require.NoError(t, tr.Add(w, len(w)))
	}

	ok, err := tr.Delete("te")
	require.NoError(t, err)
	assert.False(t, ok, "prefix that is not a term")
	assert.Equal(t, 4, tr.Size())

	ok, err = tr.Delete("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, tr.Size())

	ok, err = tr.Delete("tea")
	require.NoError(t, err)
	assert.True(t, ok)
	has, _ := tr.Contains("tea")
	assert.False(t, has)
	has, _ = tr.Contains("team")
	assert.True(t, has, "descendant survives")
	assert.Equal(t, 3, tr.Size())
}

func TestTrie_DeletePrunes(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("car", 3))
	withCar := nodeCount(tr.root)

	require.NoError(t, tr.Add("cartoon", 7))
	ok, err := tr.Delete("cartoon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, withCar, nodeCount(tr.root), "branch below car is pruned")

	ok, err = tr.Delete("car")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, nodeCount(tr.root), "only the root remains")
	assert.Equal(t, 0, tr.Size())
}

func TestTrie_DeleteStopsAtSharedAncestor(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("abcd", 4))
	require.NoError(t, tr.Add("abxy", 4))
	require.Equal(t, 7, nodeCount(tr.root))

	_, err := tr.Delete("abcd")
	require.NoError(t, err)
	assert.Equal(t, 5, nodeCount(tr.root))
	assert.Equal(t, []string{"abxy"}, collectAll(t, tr, ""))
}

func TestTrie_DeletePrunesLeftoverFromFailedAdd(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("go", 2))
	require.ErrorIs(t, tr.Add("gopher!", 7), ErrInvalidCharacter)
	require.NoError(t, tr.Add("gopher", 6))

	_, err := tr.Delete("gopher")
	require.NoError(t, err)
	assert.Equal(t, 3, nodeCount(tr.root))
}

func TestTrie_EmptyTerm(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Add("", 0))
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, []string{""}, collectAll(t, tr, ""))

	ok, err := tr.Delete("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, tr.root)
	assert.Equal(t, 0, tr.Size())
}

func TestTrie_WordsWithPrefix(t *testing.T) {
	tr := New()
	for _, w := range []string{"app", "apple", "apply", "ape", "banana", "apz", "zebra"} {
		require.NoError(t, tr.Add(w, len(w)))
	}

	testCases := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"shared prefix", "ap", []string{"ape", "app", "apple", "apply", "apz"}},
		{"prefix is a term", "app", []string{"app", "apple", "apply"}},
		{"single match", "ban", []string{"banana"}},
		{"last letter branch", "z", []string{"zebra"}},
		{"broken path", "xyz", nil},
		{"whole tree", "", []string{"ape", "app", "apple", "apply", "apz", "banana", "zebra"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := collectAll(t, tr, tc.prefix)
			assert.Equal(t, tc.want, got)
			for _, w := range got {
				assert.True(t, strings.HasPrefix(w, tc.prefix))
			}
		})
	}

	assert.Equal(t, collectAll(t, tr, ""), slices.Collect(tr.Words()))
}

func TestTrie_WordsWithPrefixEarlyStop(t *testing.T) {
	tr := New()
	for _, w := range []string{"aa", "ab", "ac", "ad"} {
		require.NoError(t, tr.Add(w, 2))
	}
	var got []string
	for w := range tr.Words() {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"aa", "ab"}, got)
}

func TestTrie_SizeCountsDistinctTerms(t *testing.T) {
	tr := New()
	for _, w := range strings.Fields("the quick brown fox jumps over the lazy dog") {
		require.NoError(t, tr.Add(w, len(w)))
	}
	assert.Equal(t, 8, tr.Size())
}

// storedCount walks the tree and counts the nodes carrying a value.
func storedCount(n *node) int {
	if n == nil {
		return 0
	}
	c := 0
	if n.hasValue {
		c++
	}
	for _, child := range n.children {
		c += storedCount(child)
	}
	return c
}

func TestTrie_SizeTracksMutations(t *testing.T) {
	tr := New()
	steps := []struct {
		op   string
		term string
	}{
		{"add", "car"},
		{"add", "cart"},
		{"add", "car"},
		{"add", "ca9"},
		{"del", "ca"},
		{"del", "car"},
		{"del", "car"},
		{"add", ""},
		{"del", ""},
		{"del", "cart"},
	}
	for _, s := range steps {
		if s.op == "add" {
			_ = tr.Add(s.term, len(s.term))
		} else {
			_, _ = tr.Delete(s.term)
		}
		assert.Equal(t, storedCount(tr.root), tr.Size(), "after %s %q", s.op, s.term)
	}
	assert.Equal(t, 0, tr.Size())
}

func TestTrie_Version(t *testing.T) {
	tr := New()
	v := tr.Version()

	require.NoError(t, tr.Add("fox", 3))
	assert.NotEqual(t, v, tr.Version(), "add")
	v = tr.Version()

	require.NoError(t, tr.Add("fox", 9))
	assert.NotEqual(t, v, tr.Version(), "reweight")
	v = tr.Version()

	_, err := tr.Contains("fox")
	require.NoError(t, err)
	_, err = tr.WordsWithPrefix("fo")
	require.NoError(t, err)
	removed, err := tr.Delete("dog")
	require.NoError(t, err)
	require.False(t, removed)
	assert.Equal(t, v, tr.Version(), "reads and missed deletes leave it alone")

	removed, err = tr.Delete("fox")
	require.NoError(t, err)
	require.True(t, removed)
	assert.NotEqual(t, v, tr.Version(), "delete")
}
