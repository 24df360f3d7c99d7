// Package lcrs implements tree.NAryTree with the left-child/right-sibling
// encoding: every node holds a link to its first child and one to its next
// sibling, whatever its fan-out.
package lcrs

import (
	"fmt"
	"iter"

	"github.com/mholzen/narytree/pkg/arena"
	"github.com/mholzen/narytree/pkg/tree"
)

const Representation = "lcrs"

type node[E any] struct {
	element     E
	parent      int
	firstChild  int
	nextSibling int
}

func newNode[E any](element E, parent int) node[E] {
	return node[E]{element: element, parent: parent, firstChild: arena.None, nextSibling: arena.None}
}

type store[E any] struct {
	nodes arena.Arena[node[E]]
}

// Tree is a left-child/right-sibling tree. Use New to create one.
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

func (t *Tree[E]) rootID() int {
	if t.root == arena.None || !t.store.nodes.Valid(t.root, t.rootGen) {
		return arena.None
	}
	return t.root
}

func (t *Tree[E]) node(id int) *node[E] {
	return t.store.nodes.At(id)
}

// lastChild returns the tail of id's sibling chain, or arena.None for a leaf.
func (t *Tree[E]) lastChild(id int) int {
	child := t.node(id).firstChild
	if child == arena.None {
		return arena.None
	}
	for t.node(child).nextSibling != arena.None {
		child = t.node(child).nextSibling
	}
	return child
}

func (t *Tree[E]) childCount(id int) int {
	count := 0
	for child := t.node(id).firstChild; child != arena.None; child = t.node(child).nextSibling {
		count++
	}
	return count
}

// appendChild links child at the end of parent's sibling chain.
func (t *Tree[E]) appendChild(parent, child int) {
	if last := t.lastChild(parent); last != arena.None {
		t.node(last).nextSibling = child
	} else {
		t.node(parent).firstChild = child
	}
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
	id, gen := t.store.nodes.Alloc(newNode(element, arena.None))
	t.root, t.rootGen = id, gen
	return t.position(id), nil
}

func (t *Tree[E]) Add(element E, parent tree.Position[E]) (tree.Position[E], error) {
	parentID, err := t.check(parent, "add child")
	if err != nil {
		return nil, err
	}
	id, _ := t.store.nodes.Alloc(newNode(element, parentID))
	t.appendChild(parentID, id)
	return t.position(id), nil
}

func (t *Tree[E]) AddAt(element E, parent tree.Position[E], index int) (tree.Position[E], error) {
	parentID, err := t.check(parent, "insert child")
	if err != nil {
		return nil, err
	}
	if index < 0 || index > t.childCount(parentID) {
		return nil, fmt.Errorf("cannot insert child at %d: %w", index, tree.ErrIndexOutOfRange)
	}
	id, _ := t.store.nodes.Alloc(newNode(element, parentID))
	p := t.node(parentID)
	if index == 0 {
		t.node(id).nextSibling = p.firstChild
		p.firstChild = id
		return t.position(id), nil
	}
	prev := p.firstChild
	for i := 1; i < index; i++ {
		prev = t.node(prev).nextSibling
	}
	t.node(id).nextSibling = t.node(prev).nextSibling
	t.node(prev).nextSibling = id
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

func (t *Tree[E]) remove(id int) int {
	n := t.node(id)
	if n.parent != arena.None {
		parent := t.node(n.parent)
		if parent.firstChild == id {
			parent.firstChild = n.nextSibling
		} else {
			prev := parent.firstChild
			for t.node(prev).nextSibling != id {
				prev = t.node(prev).nextSibling
			}
			t.node(prev).nextSibling = n.nextSibling
		}
		n.nextSibling = arena.None
	}
	if id == t.root {
		t.root = arena.None
	}
	return t.release(id)
}

func (t *Tree[E]) release(id int) int {
	count := 1
	child := t.node(id).firstChild
	for child != arena.None {
		next := t.node(child).nextSibling
		count += t.release(child)
		child = next
	}
	t.store.nodes.Free(id)
	return count
}

// computeSize counts id and every node under its first child, following
// each sibling chain.
func (t *Tree[E]) computeSize(id int) int {
	size := 1
	for child := t.node(id).firstChild; child != arena.None; child = t.node(child).nextSibling {
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
// costs O(donor size) plus a walk of p's children to find the last one.
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
	t.appendChild(parentID, copySubtree(d.store, donorRoot, t.store, parentID))
	d.remove(donorRoot)
	return nil
}

// copySubtree duplicates id and its descendants, but not id's siblings.
func copySubtree[E any](src *store[E], id int, dst *store[E], parent int) int {
	copyID, _ := dst.nodes.Alloc(newNode(src.nodes.At(id).element, parent))
	prev := arena.None
	for child := src.nodes.At(id).firstChild; child != arena.None; child = src.nodes.At(child).nextSibling {
		childCopy := copySubtree(src, child, dst, copyID)
		if prev == arena.None {
			dst.nodes.At(copyID).firstChild = childCopy
		} else {
			dst.nodes.At(prev).nextSibling = childCopy
		}
		prev = childCopy
	}
	return copyID
}

func (t *Tree[E]) IsEmpty() bool {
	return t.rootID() == arena.None
}

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

// Children walks the sibling chain into a fresh slice.
func (t *Tree[E]) Children(p tree.Position[E]) ([]tree.Position[E], error) {
	id, err := t.check(p, "list children")
	if err != nil {
		return nil, err
	}
	children := []tree.Position[E]{}
	for child := t.node(id).firstChild; child != arena.None; child = t.node(child).nextSibling {
		children = append(children, t.position(child))
	}
	return children, nil
}

func (t *Tree[E]) IsInternal(p tree.Position[E]) (bool, error) {
	id, err := t.check(p, "check internal")
	if err != nil {
		return false, err
	}
	return t.node(id).firstChild != arena.None, nil
}

func (t *Tree[E]) IsLeaf(p tree.Position[E]) (bool, error) {
	id, err := t.check(p, "check leaf")
	if err != nil {
		return false, err
	}
	return t.node(id).firstChild == arena.None, nil
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
