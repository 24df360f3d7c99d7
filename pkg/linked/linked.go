// Package linked implements tree.NAryTree with nodes that keep an ordered
// slice of their children.
package linked

import (
	"fmt"
	"iter"
	"slices"

	"github.com/mholzen/narytree/pkg/arena"
	"github.com/mholzen/narytree/pkg/tree"
)

const Representation = "linked"

type node[E any] struct {
	element  E
	parent   int
	children []int
}

// store owns the nodes. A tree and the views taken from it share one store.
type store[E any] struct {
	nodes arena.Arena[node[E]]
}

// Tree is a child-list tree. The zero value is not usable; call New.
type Tree[E any] struct {
	store   *store[E]
	root    int
	rootGen uint32
	view    bool
}

var _ tree.NAryTree[int] = (*Tree[int])(nil)

func New[E any]() *Tree[E] {
	return &Tree[E]{store: &store[E]{}, root: arena.None}
}

type position[E any] struct {
	owner *Tree[E]
	store *store[E]
	id    int
	gen   uint32
}

// Element returns the zero value once the node has been removed.
func (p position[E]) Element() E {
	if n, ok := p.store.nodes.Get(p.id, p.gen); ok {
		return n.element
	}
	var zero E
	return zero
}

func (p position[E]) String() string {
	return fmt.Sprint(p.Element())
}

func (t *Tree[E]) position(id int) tree.Position[E] {
	return position[E]{owner: t, store: t.store, id: id, gen: t.store.nodes.Gen(id)}
}

func (t *Tree[E]) check(p tree.Position[E], op string) (int, error) {
	pos, ok := p.(position[E])
	if !ok || pos.owner != t || pos.store != t.store || !t.store.nodes.Valid(pos.id, pos.gen) {
		return arena.None, fmt.Errorf("cannot %s: %w", op, tree.ErrInvalidPosition)
	}
	return pos.id, nil
}

// rootID returns arena.None when there is no root or a view's root has been
// removed through another tree sharing the store.
func (t *Tree[E]) rootID() int {
	if t.root == arena.None || !t.store.nodes.Valid(t.root, t.rootGen) {
		return arena.None
	}
	return t.root
}

func (t *Tree[E]) node(id int) *node[E] {
	return t.store.nodes.At(id)
}

func (t *Tree[E]) Representation() string {
	return Representation
}

func (t *Tree[E]) AddRoot(element E) (tree.Position[E], error) {
	if t.view {
		return nil, fmt.Errorf("cannot add root to a subtree view: %w", tree.ErrUnsupported)
	}
	if !t.IsEmpty() {
		return nil, fmt.Errorf("cannot add root: %w", tree.ErrIllegalState)
	}
	id, gen := t.store.nodes.Alloc(node[E]{element: element, parent: arena.None})
	t.root, t.rootGen = id, gen
	return t.position(id), nil
}

func (t *Tree[E]) Add(element E, parent tree.Position[E]) (tree.Position[E], error) {
	parentID, err := t.check(parent, "add child")
	if err != nil {
		return nil, err
	}
	id, _ := t.store.nodes.Alloc(node[E]{element: element, parent: parentID})
	p := t.node(parentID)
	p.children = append(p.children, id)
	return t.position(id), nil
}

func (t *Tree[E]) AddAt(element E, parent tree.Position[E], index int) (tree.Position[E], error) {
	parentID, err := t.check(parent, "insert child")
	if err != nil {
		return nil, err
	}
	if index < 0 || index > len(t.node(parentID).children) {
		return nil, fmt.Errorf("cannot insert child at %d: %w", index, tree.ErrIndexOutOfRange)
	}
	id, _ := t.store.nodes.Alloc(node[E]{element: element, parent: parentID})
	p := t.node(parentID)
	p.children = slices.Insert(p.children, index, id)
	return t.position(id), nil
}

func (t *Tree[E]) SwapElements(p1, p2 tree.Position[E]) error {
	id1, err := t.check(p1, "swap elements")
	if err != nil {
		return err
	}
	id2, err := t.check(p2, "swap elements")
	if err != nil {
		return err
	}
	n1, n2 := t.node(id1), t.node(id2)
	n1.element, n2.element = n2.element, n1.element
	return nil
}

func (t *Tree[E]) Replace(p tree.Position[E], element E) (E, error) {
	id, err := t.check(p, "replace element")
	if err != nil {
		var zero E
		return zero, err
	}
	n := t.node(id)
	old := n.element
	n.element = element
	return old, nil
}

func (t *Tree[E]) Remove(p tree.Position[E]) error {
	id, err := t.check(p, "remove")
	if err != nil {
		return err
	}
	t.remove(id)
	return nil
}

// remove unlinks id from its parent, which may lie outside a view, and frees
// the subtree.
func (t *Tree[E]) remove(id int) int {
	if parentID := t.node(id).parent; parentID != arena.None {
		parent := t.node(parentID)
		if i := slices.Index(parent.children, id); i >= 0 {
			parent.children = slices.Delete(parent.children, i, i+1)
		}
	}
	if id == t.root {
		t.root = arena.None
	}
	return t.release(id)
}

// release frees id and its descendants and returns how many nodes it freed.
func (t *Tree[E]) release(id int) int {
	count := 1
	for _, child := range t.node(id).children {
		count += t.release(child)
	}
	t.store.nodes.Free(id)
	return count
}

func (t *Tree[E]) computeSize(id int) int {
	size := 1
	for _, child := range t.node(id).children {
		size += t.computeSize(child)
	}
	return size
}

func (t *Tree[E]) SubTree(p tree.Position[E]) (tree.NAryTree[E], error) {
	id, err := t.check(p, "take subtree")
	if err != nil {
		return nil, err
	}
	return &Tree[E]{store: t.store, root: id, rootGen: t.store.nodes.Gen(id), view: true}, nil
}

func (t *Tree[E]) Extract(p tree.Position[E]) (tree.NAryTree[E], error) {
	id, err := t.check(p, "extract")
	if err != nil {
		return nil, err
	}
	out := New[E]()
	out.root = copySubtree(t.store, id, out.store, arena.None)
	out.rootGen = out.store.nodes.Gen(out.root)
	t.remove(id)
	return out, nil
}

// Attach copies donor's nodes into this tree's store as the last child of p,
// then removes them from donor. Nodes cannot move between stores, so this
// costs O(donor size).
func (t *Tree[E]) Attach(p tree.Position[E], donor tree.NAryTree[E]) error {
	parentID, err := t.check(p, "attach")
	if err != nil {
		return err
	}
	d, ok := donor.(*Tree[E])
	if !ok || d == nil {
		return fmt.Errorf("cannot attach %T to a %s tree: %w", donor, Representation, tree.ErrIncompatibleRepresentation)
	}
	if d.store == t.store {
		return fmt.Errorf("cannot attach a tree sharing nodes with the receiver: %w", tree.ErrIllegalState)
	}
	donorRoot := d.rootID()
	if donorRoot == arena.None {
		return nil
	}
	id := copySubtree(d.store, donorRoot, t.store, parentID)
	parent := t.node(parentID)
	parent.children = append(parent.children, id)
	d.remove(donorRoot)
	return nil
}

// copySubtree duplicates the subtree at id from src into dst under parent.
// src and dst must differ.
func copySubtree[E any](src *store[E], id int, dst *store[E], parent int) int {
	n := src.nodes.At(id)
	copyID, _ := dst.nodes.Alloc(node[E]{element: n.element, parent: parent})
	children := make([]int, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, copySubtree(src, child, dst, copyID))
	}
	dst.nodes.At(copyID).children = children
	return copyID
}

func (t *Tree[E]) IsEmpty() bool {
	return t.rootID() == arena.None
}

// Size is constant time for an owning tree. A view counts its nodes on
// every call since the source may have changed them.
func (t *Tree[E]) Size() int {
	root := t.rootID()
	if root == arena.None {
		return 0
	}
	if t.view {
		return t.computeSize(root)
	}
	return t.store.nodes.Len()
}

func (t *Tree[E]) Root() (tree.Position[E], error) {
	root := t.rootID()
	if root == arena.None {
		return nil, tree.ErrEmptyTree
	}
	return t.position(root), nil
}

func (t *Tree[E]) Parent(p tree.Position[E]) (tree.Position[E], error) {
	id, err := t.check(p, "get parent")
	if err != nil {
		return nil, err
	}
	parent := t.node(id).parent
	if id == t.root || parent == arena.None {
		return nil, nil
	}
	return t.position(parent), nil
}

func (t *Tree[E]) Children(p tree.Position[E]) ([]tree.Position[E], error) {
	id, err := t.check(p, "list children")
	if err != nil {
		return nil, err
	}
	ids := t.node(id).children
	children := make([]tree.Position[E], 0, len(ids))
	for _, child := range ids {
		children = append(children, t.position(child))
	}
	return children, nil
}

func (t *Tree[E]) IsInternal(p tree.Position[E]) (bool, error) {
	id, err := t.check(p, "check internal")
	if err != nil {
		return false, err
	}
	return len(t.node(id).children) > 0, nil
}

func (t *Tree[E]) IsLeaf(p tree.Position[E]) (bool, error) {
	id, err := t.check(p, "check leaf")
	if err != nil {
		return false, err
	}
	return len(t.node(id).children) == 0, nil
}

func (t *Tree[E]) IsRoot(p tree.Position[E]) (bool, error) {
	id, err := t.check(p, "check root")
	if err != nil {
		return false, err
	}
	return id == t.root, nil
}

func (t *Tree[E]) Positions() []tree.Position[E] {
	positions, err := tree.BreadthFirst[E](t)
	if err != nil {
		return []tree.Position[E]{}
	}
	return positions
}

func (t *Tree[E]) All() iter.Seq[tree.Position[E]] {
	return tree.Seq(t.Positions())
}
