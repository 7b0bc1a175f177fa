// Package suggest is the query layer over the trie: input normalization and validation, bulk loading of free text and length-windowed prefix queries.
package suggest

import "iter"

// Completer defines the operations the front ends (IPC server, HTTP API, CLI) need from an index.
type Completer interface {
	// Load tokenizes texts and stores every kept word, returning the term count
	Load(texts ...string) int

	// Contains reports whether word is stored
	Contains(word string) (bool, error)

	// Delete removes word and reports whether it was stored
	Delete(word string) (bool, error)

	// WordsWithPrefix returns every completion of prefix allowed by the unbounded window
	WordsWithPrefix(prefix string) ([]string, error)

	// WordsWithPrefixWindow returns completions whose lengths fall in the k-wide window
	WordsWithPrefixWindow(prefix string, k int) ([]string, error)

	// Weight returns the stored weight of word
	Weight(word string) (int, bool)

	// Terms enumerates every stored term
	Terms() iter.Seq[string]

	// Size returns the number of stored terms
	Size() int

	// Stats returns statistics about the index and its cache
	Stats() map[string]int
}
