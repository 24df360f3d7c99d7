package tree

import (
	"fmt"

	"github.com/mholzen/narytree/pkg/collections"
)

// Snapshot copies the subtree at p into a read-only collections.Tree of
// elements.
func Snapshot[E any](t NAryTree[E], p Position[E]) (*collections.Tree[E], error) {
	children, err := t.Children(p)
	if err != nil {
		return nil, err
	}
	node := collections.NewTree(p.Element())
	for _, child := range children {
		sub, err := Snapshot(t, child)
		if err != nil {
			return nil, err
		}
		node.AddChild(sub)
	}
	return node, nil
}

// Validate checks the structural invariants reachable through the contract:
// every child names its parent, no node is reached twice, and Size matches
// the number of reachable nodes.
func Validate[E any](t NAryTree[E]) error {
	if t.IsEmpty() {
		if t.Size() != 0 {
			return fmt.Errorf("empty tree reports size %d", t.Size())
		}
		return nil
	}
	root, err := t.Root()
	if err != nil {
		return err
	}
	parent, err := t.Parent(root)
	if err != nil {
		return err
	}
	if parent != nil {
		return fmt.Errorf("root has a parent")
	}

	seen := map[Position[E]]struct{}{}
	stack := collections.Stack[Position[E]]{}
	stack.Push(root)
	for !stack.IsEmpty() {
		node, _ := stack.Pop()
		if _, ok := seen[node]; ok {
			return fmt.Errorf("node %v reached twice", node.Element())
		}
		seen[node] = struct{}{}

		children, err := t.Children(node)
		if err != nil {
			return err
		}
		for _, child := range children {
			parent, err := t.Parent(child)
			if err != nil {
				return err
			}
			if parent != node {
				return fmt.Errorf("child %v does not point back to %v", child.Element(), node.Element())
			}
		}
		stack.Push(children...)
	}
	if len(seen) != t.Size() {
		return fmt.Errorf("size %d but %d reachable nodes", t.Size(), len(seen))
	}
	return nil
}

// Equal reports whether two trees hold the same elements in the same shape,
// regardless of representation.
func Equal[E comparable](a, b NAryTree[E]) (bool, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty(), nil
	}
	ra, err := a.Root()
	if err != nil {
		return false, err
	}
	rb, err := b.Root()
	if err != nil {
		return false, err
	}
	return equalFrom(a, ra, b, rb)
}

func equalFrom[E comparable](a NAryTree[E], pa Position[E], b NAryTree[E], pb Position[E]) (bool, error) {
	if pa.Element() != pb.Element() {
		return false, nil
	}
	ca, err := a.Children(pa)
	if err != nil {
		return false, err
	}
	cb, err := b.Children(pb)
	if err != nil {
		return false, err
	}
	if len(ca) != len(cb) {
		return false, nil
	}
	for i := range ca {
		ok, err := equalFrom(a, ca[i], b, cb[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
