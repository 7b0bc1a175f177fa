package suggest

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cacheEntry holds the answers computed for one prefix, keyed by window.
type cacheEntry struct {
	windows map[int][]string
}

// QueryCache remembers windowed query results per prefix in a patricia trie
// so a changed term can drop exactly the prefixes it falls under.
// A nil *QueryCache is valid and caches nothing.
type QueryCache struct {
	entries     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	maxPrefixes int
	hits        int
	misses      int
}

// NewQueryCache creates a cache holding at most maxPrefixes prefixes.
func NewQueryCache(maxPrefixes int) *QueryCache {
	return &QueryCache{
		entries:     patricia.NewTrie(),
		accessTime:  make(map[string]int64, maxPrefixes),
		maxPrefixes: maxPrefixes,
	}
}

// Get returns a copy of the cached result for prefix and window k.
func (qc *QueryCache) Get(prefix string, k int) ([]string, bool) {
	if qc == nil {
		return nil, false
	}
	item := qc.entries.Get(patricia.Prefix(prefix))
	if item == nil {
		qc.misses++
		return nil, false
	}
	words, ok := item.(*cacheEntry).windows[k]
	if !ok {
		qc.misses++
		return nil, false
	}
	qc.hits++
	qc.markAccessed(prefix)
	return slices.Clone(words), true
}

// Put stores the result for prefix and window k, evicting the least
// recently used prefix when the cache is full.
func (qc *QueryCache) Put(prefix string, k int, words []string) {
	if qc == nil {
		return
	}
	key := patricia.Prefix(prefix)
	if item := qc.entries.Get(key); item != nil {
		item.(*cacheEntry).windows[k] = slices.Clone(words)
		qc.markAccessed(prefix)
		return
	}
	if len(qc.accessTime) >= qc.maxPrefixes {
		qc.evictLRU()
	}
	qc.entries.Insert(key, &cacheEntry{
		windows: map[int][]string{k: slices.Clone(words)},
	})
	qc.markAccessed(prefix)
}

// Invalidate drops every cached prefix of term, since only those results
// can contain it.
func (qc *QueryCache) Invalidate(term string) {
	if qc == nil {
		return
	}
	var stale []string
	err := qc.entries.VisitPrefixes(patricia.Prefix(term), func(p patricia.Prefix, item patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes of %q: %v", term, err)
		qc.Reset()
		return
	}
	for _, prefix := range stale {
		qc.entries.Delete(patricia.Prefix(prefix))
		delete(qc.accessTime, prefix)
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached prefixes of '%s'", len(stale), term)
	}
}

// Reset empties the cache, keeping the hit and miss counters.
func (qc *QueryCache) Reset() {
	if qc == nil {
		return
	}
	qc.entries = patricia.NewTrie()
	clear(qc.accessTime)
}

// Stats returns the cache counters.
func (qc *QueryCache) Stats() map[string]int {
	if qc == nil {
		return map[string]int{}
	}
	return map[string]int{
		"cachedPrefixes": len(qc.accessTime),
		"maxCached":      qc.maxPrefixes,
		"cacheHits":      qc.hits,
		"cacheMisses":    qc.misses,
	}
}

func (qc *QueryCache) markAccessed(prefix string) {
	qc.accessCount++
	qc.accessTime[prefix] = qc.accessCount
}

func (qc *QueryCache) evictLRU() {
	var oldestPrefix string
	var oldestTime int64 = math.MaxInt64

	for prefix, accessTime := range qc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestPrefix = prefix
		}
	}

	if oldestTime != math.MaxInt64 {
		qc.entries.Delete(patricia.Prefix(oldestPrefix))
		delete(qc.accessTime, oldestPrefix)
		log.Debugf("Evicted prefix '%s' from query cache", oldestPrefix)
	}
}
