package tree

import (
	"fmt"

	"github.com/mholzen/narytree/pkg/collections"
)

// PreOrder visits each node before its children, children left to right.
func PreOrder[E any](t NAryTree[E]) ([]Position[E], error) {
	return fromRoot(t, PreOrderFrom[E])
}

// PostOrder visits children left to right before their parent.
func PostOrder[E any](t NAryTree[E]) ([]Position[E], error) {
	return fromRoot(t, PostOrderFrom[E])
}

// BreadthFirst visits nodes level by level, left to right.
func BreadthFirst[E any](t NAryTree[E]) ([]Position[E], error) {
	return fromRoot(t, BreadthFirstFrom[E])
}

func fromRoot[E any](t NAryTree[E], walk func(NAryTree[E], Position[E]) ([]Position[E], error)) ([]Position[E], error) {
	if t.IsEmpty() {
		return []Position[E]{}, nil
	}
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return walk(t, root)
}

func PreOrderFrom[E any](t NAryTree[E], start Position[E]) ([]Position[E], error) {
	positions := []Position[E]{}
	if err := preOrder(t, start, &positions); err != nil {
		return nil, fmt.Errorf("cannot traverse in pre-order: %w", err)
	}
	return positions, nil
}

func preOrder[E any](t NAryTree[E], node Position[E], positions *[]Position[E]) error {
	children, err := t.Children(node)
	if err != nil {
		return err
	}
	*positions = append(*positions, node)
	for _, child := range children {
		if err := preOrder(t, child, positions); err != nil {
			return err
		}
	}
	return nil
}

func PostOrderFrom[E any](t NAryTree[E], start Position[E]) ([]Position[E], error) {
	positions := []Position[E]{}
	if err := postOrder(t, start, &positions); err != nil {
		return nil, fmt.Errorf("cannot traverse in post-order: %w", err)
	}
	return positions, nil
}

func postOrder[E any](t NAryTree[E], node Position[E], positions *[]Position[E]) error {
	children, err := t.Children(node)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := postOrder(t, child, positions); err != nil {
			return err
		}
	}
	*positions = append(*positions, node)
	return nil
}

func BreadthFirstFrom[E any](t NAryTree[E], start Position[E]) ([]Position[E], error) {
	positions := []Position[E]{}
	queue := collections.Queue[Position[E]]{}
	queue.Enqueue(start)
	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		children, err := t.Children(node)
		if err != nil {
			return nil, fmt.Errorf("cannot traverse breadth-first: %w", err)
		}
		positions = append(positions, node)
		queue.Enqueue(children...)
	}
	return positions, nil
}

// Depth counts the edges between p and the root.
func Depth[E any](t NAryTree[E], p Position[E]) (int, error) {
	depth := 0
	for {
		parent, err := t.Parent(p)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return depth, nil
		}
		depth++
		p = parent
	}
}

// Height counts the edges on the longest downward path from p to a leaf.
func Height[E any](t NAryTree[E], p Position[E]) (int, error) {
	children, err := t.Children(p)
	if err != nil {
		return 0, err
	}
	height := 0
	for _, child := range children {
		h, err := Height(t, child)
		if err != nil {
			return 0, err
		}
		height = max(height, h+1)
	}
	return height, nil
}
