// Package tree defines the ordered n-ary tree contract shared by every
// representation, along with traversal engines that work through it.
package tree

import "iter"

// Position identifies one node of one tree. It only reads the element; all
// navigation goes through the tree that issued it.
type Position[E any] interface {
	Element() E
}

// NAryTree is a mutable ordered tree. Positions are valid only for the tree
// value that issued them. Every method validates its arguments before it
// mutates anything.
type NAryTree[E any] interface {
	// AddRoot installs the root of an empty tree.
	AddRoot(element E) (Position[E], error)
	// Add appends a new last child under parent.
	Add(element E, parent Position[E]) (Position[E], error)
	// AddAt inserts a new child at sibling index 0..len(children).
	AddAt(element E, parent Position[E], index int) (Position[E], error)

	SwapElements(p1, p2 Position[E]) error
	Replace(p Position[E], element E) (E, error)

	// Remove detaches p together with its whole subtree.
	Remove(p Position[E]) error

	// SubTree returns a view rooted at p that shares nodes with this tree.
	SubTree(p Position[E]) (NAryTree[E], error)
	// Extract removes the subtree at p and returns it as an independent tree.
	Extract(p Position[E]) (NAryTree[E], error)
	// Attach moves every node of donor under p as its new last child and
	// leaves donor empty. Representations copy the donor's nodes, so the
	// cost is linear in the donor's size.
	Attach(p Position[E], donor NAryTree[E]) error

	IsEmpty() bool
	Size() int
	Root() (Position[E], error)
	// Parent returns nil for the root.
	Parent(p Position[E]) (Position[E], error)
	// Children never returns a nil slice for a valid position.
	Children(p Position[E]) ([]Position[E], error)
	IsInternal(p Position[E]) (bool, error)
	IsLeaf(p Position[E]) (bool, error)
	IsRoot(p Position[E]) (bool, error)

	// Positions is a breadth-first snapshot taken at call time.
	Positions() []Position[E]
	// All iterates over a Positions snapshot.
	All() iter.Seq[Position[E]]

	// Representation names the physical layout, e.g. "linked" or "lcrs".
	Representation() string
}

// Elements maps positions to their elements.
func Elements[E any](positions []Position[E]) []E {
	elements := make([]E, 0, len(positions))
	for _, p := range positions {
		elements = append(elements, p.Element())
	}
	return elements
}

// Seq wraps a snapshot in an iterator.
func Seq[E any](positions []Position[E]) iter.Seq[Position[E]] {
	return func(yield func(Position[E]) bool) {
		for _, p := range positions {
			if !yield(p) {
				return
			}
		}
	}
}
