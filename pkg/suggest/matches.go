package suggest

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

const (
	// MinWordLength is the length a token must exceed to be loaded.
	MinWordLength = 2
	// MinPrefixLength is the shortest prefix a query accepts.
	MinPrefixLength = 2
	// ShortPrefixMinLen is the smallest completion length returned for a
	// prefix of exactly MinPrefixLength characters, so a two letter word
	// never completes itself.
	ShortPrefixMinLen = 3
	// UnboundedWindow is the window used when the caller does not give one.
	UnboundedWindow = 189819
	// DefaultCacheSize is the number of prefixes kept in the query cache.
	DefaultCacheSize = 512
)

// Options tunes the query layer. Zero fields fall back to the defaults above.
type Options struct {
	MinWordLength     int
	MinPrefixLength   int
	ShortPrefixMinLen int
	UnboundedWindow   int
	// CacheSize of 0 keeps the default, a negative value disables caching
	CacheSize int
}

// DefaultOptions returns the options used by NewPrefixMatches.
func DefaultOptions() Options {
	return Options{
		MinWordLength:     MinWordLength,
		MinPrefixLength:   MinPrefixLength,
		ShortPrefixMinLen: ShortPrefixMinLen,
		UnboundedWindow:   UnboundedWindow,
		CacheSize:         DefaultCacheSize,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinWordLength <= 0 {
		o.MinWordLength = d.MinWordLength
	}
	if o.MinPrefixLength <= 0 {
		o.MinPrefixLength = d.MinPrefixLength
	}
	if o.ShortPrefixMinLen <= 0 {
		o.ShortPrefixMinLen = d.ShortPrefixMinLen
	}
	if o.UnboundedWindow <= 0 {
		o.UnboundedWindow = d.UnboundedWindow
	}
	if o.CacheSize == 0 {
		o.CacheSize = d.CacheSize
	}
	return o
}

// PrefixMatches answers prefix queries over a trie of lowercase terms.
// Like the trie it wraps, it is not safe for concurrent use. The trie may
// still be changed directly; cached answers are dropped when it is.
type PrefixMatches struct {
	trie    *trie.Trie
	cache   *QueryCache
	opts    Options
	skipped int
	// trie version the cache contents were computed against
	cachedAt uint64
}

// NewPrefixMatches wraps t with the default options.
func NewPrefixMatches(t *trie.Trie) *PrefixMatches {
	return NewPrefixMatchesWithOptions(t, DefaultOptions())
}

// NewPrefixMatchesWithOptions wraps t with custom options.
func NewPrefixMatchesWithOptions(t *trie.Trie, opts Options) *PrefixMatches {
	if t == nil {
		t = trie.New()
	}
	opts = opts.withDefaults()
	var cache *QueryCache
	if opts.CacheSize > 0 {
		cache = NewQueryCache(opts.CacheSize)
	}
	return &PrefixMatches{
		trie:     t,
		cache:    cache,
		opts:     opts,
		cachedAt: t.Version(),
	}
}

// syncCache empties the cache if the trie changed behind its back.
func (pm *PrefixMatches) syncCache() {
	if v := pm.trie.Version(); v != pm.cachedAt {
		pm.cache.Reset()
		pm.cachedAt = v
	}
}

// Load splits each text on whitespace and stores every token longer than
// MinWordLength, lowercased, weighted by its length. Tokens holding
// anything but ASCII letters are skipped. It returns the term count.
func (pm *PrefixMatches) Load(texts ...string) int {
	pm.syncCache()
	added := 0
	for _, text := range texts {
		for _, word := range strings.Fields(text) {
			if len(word) <= pm.opts.MinWordLength {
				continue
			}
			term := strings.ToLower(word)
			// validated up front so a rejected token leaves no nodes behind
			if err := trie.Validate(term); err != nil {
				pm.skipped++
				log.Debugf("Skipping token %q: %v", word, err)
				continue
			}
			if err := pm.trie.Add(term, len(word)); err != nil {
				log.Errorf("Failed to add %q: %v", term, err)
				continue
			}
			added++
		}
	}
	if added > 0 {
		pm.cache.Reset()
	}
	pm.cachedAt = pm.trie.Version()
	return pm.Size()
}

// normalizeWord folds case and rejects empty input.
func normalizeWord(word string) (string, error) {
	if word == "" {
		return "", ErrEmptyInput
	}
	return strings.ToLower(word), nil
}

// Contains reports whether word is stored, ignoring case.
func (pm *PrefixMatches) Contains(word string) (bool, error) {
	term, err := normalizeWord(word)
	if err != nil {
		return false, err
	}
	return pm.trie.Contains(term)
}

// Delete removes word, ignoring case, and reports whether it was stored.
func (pm *PrefixMatches) Delete(word string) (bool, error) {
	term, err := normalizeWord(word)
	if err != nil {
		return false, err
	}
	pm.syncCache()
	removed, err := pm.trie.Delete(term)
	if err != nil {
		return false, err
	}
	if removed {
		pm.cache.Invalidate(term)
		pm.cachedAt = pm.trie.Version()
	}
	return removed, nil
}

// Weight returns the weight stored for word, ignoring case.
func (pm *PrefixMatches) Weight(word string) (int, bool) {
	w, ok, err := pm.trie.Get(strings.ToLower(word))
	if err != nil {
		return 0, false
	}
	return w, ok
}

// WordsWithPrefix returns every stored completion of prefix at least
// MinLength(prefix) long.
func (pm *PrefixMatches) WordsWithPrefix(prefix string) ([]string, error) {
	if len(prefix) < pm.opts.MinPrefixLength {
		return nil, fmt.Errorf("%w: %q has %d characters, need %d", ErrPrefixTooShort, prefix, len(prefix), pm.opts.MinPrefixLength)
	}
	return pm.WordsWithPrefixWindow(prefix, pm.opts.UnboundedWindow)
}

// WordsWithPrefixWindow returns the stored completions of prefix whose
// length lies in [MinLength(prefix), MinLength(prefix)+k-1], in
// lexicographic order.
func (pm *PrefixMatches) WordsWithPrefixWindow(prefix string, k int) ([]string, error) {
	if len(prefix) < pm.opts.MinPrefixLength {
		return nil, fmt.Errorf("%w: %q has %d characters, need %d", ErrPrefixTooShort, prefix, len(prefix), pm.opts.MinPrefixLength)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNonPositiveWindow, k)
	}
	prefix = strings.ToLower(prefix)

	pm.syncCache()
	if cached, ok := pm.cache.Get(prefix, k); ok {
		return cached, nil
	}

	minLen, maxLen := pm.Window(prefix, k)
	seq, err := pm.trie.WordsWithPrefix(prefix)
	if err != nil {
		return nil, err
	}
	matches := make([]string, 0)
	for word := range seq {
		if l := len(word); minLen <= l && l <= maxLen {
			matches = append(matches, word)
		}
	}

	pm.cache.Put(prefix, k, matches)
	return matches, nil
}

// MinLength is the shortest completion length accepted for prefix.
func (pm *PrefixMatches) MinLength(prefix string) int {
	if len(prefix) == pm.opts.MinPrefixLength {
		return max(len(prefix), pm.opts.ShortPrefixMinLen)
	}
	return len(prefix)
}

// Window returns the inclusive length bounds for a query of prefix with window k.
func (pm *PrefixMatches) Window(prefix string, k int) (int, int) {
	minLen := pm.MinLength(prefix)
	if k > math.MaxInt-minLen {
		return minLen, math.MaxInt
	}
	return minLen, minLen + k - 1
}

// Terms enumerates every stored term in lexicographic order.
func (pm *PrefixMatches) Terms() iter.Seq[string] {
	return pm.trie.Words()
}

// Size returns the number of stored terms.
func (pm *PrefixMatches) Size() int {
	return pm.trie.Size()
}

// Stats returns term and cache counters.
func (pm *PrefixMatches) Stats() map[string]int {
	stats := map[string]int{
		"totalWords":    pm.Size(),
		"skippedTokens": pm.skipped,
	}
	for k, v := range pm.cache.Stats() {
		stats[k] = v
	}
	return stats
}
