/*
Package trie implements the storage engine behind the prefix index: an R-way
character tree over the 26 lowercase ASCII letters.

Each node holds an optional integer weight and one child link per letter.
A term is stored when the node reached by spelling it carries a weight.
Nodes are created on demand by Add and unlinked by Delete as soon as they
hold neither a weight nor any children, so the tree only ever contains the
stored terms and their shared prefixes.

	t := trie.New()
	_ = t.Add("brown", 5)
	ok, _ := t.Contains("brown") // true
	seq, _ := t.WordsWithPrefix("br")
	for w := range seq {
		fmt.Println(w) // brown
	}

Every entry point that walks the tree by character validates the input the
same way and fails with ErrInvalidCharacter for anything outside a-z.

A Trie is not safe for concurrent use. Callers serialize mutations and any
enumeration running alongside them.
*/
package trie

import (
	"fmt"
	"iter"
)

// Trie owns a single root node and, transitively, every node below it.
type Trie struct {
	root    *node
	size    int
	version uint64
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// invalidCharacter wraps ErrInvalidCharacter with the offending position.
func invalidCharacter(term string, pos int) error {
	return fmt.Errorf("%w %q at position %d in %q", ErrInvalidCharacter, term[pos], pos, term)
}

// Validate reports whether every byte of term is a lowercase letter.
func Validate(term string) error {
	for i := 0; i < len(term); i++ {
		if _, ok := slot(term[i]); !ok {
			return invalidCharacter(term, i)
		}
	}
	return nil
}

// Add stores term with the given weight, overwriting the weight if the term
// is already present. Nodes created for characters before an invalid one
// stay in the tree; they are valueless and get pruned by a later Delete
// that passes through them.
func (t *Trie) Add(term string, weight int) error {
	cur := t.root
	for i := 0; i < len(term); i++ {
		idx, ok := slot(term[i])
		if !ok {
			return invalidCharacter(term, i)
		}
		if cur.children[idx] == nil {
			cur.children[idx] = &node{}
		}
		cur = cur.children[idx]
	}
	if !cur.hasValue {
		t.size++
	}
	cur.value = weight
	cur.hasValue = true
	t.version++
	return nil
}

// find walks the path spelled by key and returns the node at its end,
// or nil when the path breaks.
func (t *Trie) find(key string) (*node, error) {
	cur := t.root
	for i := 0; i < len(key); i++ {
		idx, ok := slot(key[i])
		if !ok {
			return nil, invalidCharacter(key, i)
		}
		cur = cur.children[idx]
		if cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

// Contains reports whether term is stored.
func (t *Trie) Contains(term string) (bool, error) {
	n, err := t.find(term)
	if err != nil {
		return false, err
	}
	return n != nil && n.hasValue, nil
}

// Get returns the weight stored for term.
func (t *Trie) Get(term string) (int, bool, error) {
	n, err := t.find(term)
	if err != nil || n == nil || !n.hasValue {
		return 0, false, err
	}
	return n.value, true, nil
}

// Delete removes term and prunes every ancestor left without a value and
// without children. It returns false, leaving the tree untouched, when the
// term is not stored.
func (t *Trie) Delete(term string) (bool, error) {
	found, err := t.Contains(term)
	if err != nil || !found {
		return false, err
	}
	// the root stays linked even when remove reports it empty
	remove(t.root, term, 0)
	t.size--
	t.version++
	return true, nil
}

// remove clears the value at the end of key below n and reports whether n
// itself became empty, in which case the caller unlinks it. The key has
// already been validated by Contains.
func remove(n *node, key string, depth int) bool {
	if depth == len(key) {
		n.value = 0
		n.hasValue = false
		return n.isEmpty()
	}
	idx, _ := slot(key[depth])
	child := n.children[idx]
	if !remove(child, key, depth+1) {
		return false
	}
	n.children[idx] = nil
	return n.isEmpty()
}

// Size returns the number of stored terms.
func (t *Trie) Size() int {
	return t.size
}

// Version changes every time a term is stored, reweighted or deleted.
// Holders of derived data compare it to tell whether the tree moved on.
func (t *Trie) Version() uint64 {
	return t.version
}

// Words enumerates every stored term in lexicographic order.
func (t *Trie) Words() iter.Seq[string] {
	seq, _ := t.WordsWithPrefix("")
	return seq
}

// WordsWithPrefix enumerates the stored terms starting with prefix,
// including prefix itself when it is stored, in lexicographic order.
// The prefix is validated before the sequence is returned; an unknown
// prefix yields an empty sequence.
func (t *Trie) WordsWithPrefix(prefix string) (iter.Seq[string], error) {
	start, err := t.find(prefix)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		if start == nil {
			return
		}
		buf := make([]byte, len(prefix), len(prefix)+16)
		copy(buf, prefix)
		collect(start, buf, yield)
	}, nil
}

// collect walks the subtree below n depth first in ascending letter order.
// It returns false once yield asks to stop.
func collect(n *node, path []byte, yield func(string) bool) bool {
	if n.hasValue && !yield(string(path)) {
		return false
	}
	for i, child := range n.children {
		if child == nil {
			continue
		}
		if !collect(child, append(path, letter(i)), yield) {
			return false
		}
	}
	return true
}
