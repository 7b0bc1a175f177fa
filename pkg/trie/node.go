package trie

import "errors"

const (
	// AlphabetSize is the branching factor of every node.
	AlphabetSize = 26
	// FirstLetter is the character stored in child slot 0.
	FirstLetter = 'a'
	// LastLetter is the character stored in child slot AlphabetSize-1.
	LastLetter = 'z'
)

// ErrInvalidCharacter is returned when a term or prefix holds a byte outside a-z.
var ErrInvalidCharacter = errors.New("invalid character")

// node is a single position in the trie. A node without a value and
// without children is never left linked into the tree.
type node struct {
	value    int
	hasValue bool
	children [AlphabetSize]*node
}

// isEmpty reports whether the node can be unlinked from its parent.
func (n *node) isEmpty() bool {
	if n.hasValue {
		return false
	}
	for _, child := range n.children {
		if child != nil {
			return false
		}
	}
	return true
}

// slot maps a letter to its child index. Every path that indexes by
// character goes through here.
func slot(c byte) (int, bool) {
	if c < FirstLetter || c > LastLetter {
		return 0, false
	}
	return int(c - FirstLetter), true
}

// letter is the inverse of slot.
func letter(i int) byte {
	return byte(FirstLetter + i)
}
