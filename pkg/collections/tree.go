package collections

import (
	"iter"
)

// TreeProvider is the read-only shape renderers and walkers consume.
type TreeProvider[T any] interface {
	Node() T
	Children() iter.Seq[TreeProvider[T]]
}

type Tree[T any] struct {
	node     T
	children []TreeProvider[T]
}

func (t *Tree[T]) Children() iter.Seq[TreeProvider[T]] {
	return iter.Seq[TreeProvider[T]](func(yield func(TreeProvider[T]) bool) {
		for _, child := range t.children {
			if !yield(child) {
				break
			}
		}
	})
}

func (t *Tree[T]) AddChild(child TreeProvider[T]) {
	t.children = append(t.children, child)
}

func (t *Tree[T]) Node() T {
	return t.node
}

func NewTree[T any](node T, children ...TreeProvider[T]) *Tree[T] {
	return &Tree[T]{node: node, children: children}
}

// CountNodes returns the number of nodes reachable from root, root included.
func CountNodes[T any](root TreeProvider[T]) int {
	count := 1
	for child := range root.Children() {
		count += CountNodes(child)
	}
	return count
}
