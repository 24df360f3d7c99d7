package repr

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/mholzen/narytree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachRepresentation runs fn once per representation.
func forEachRepresentation(t *testing.T, fn func(t *testing.T, newTree func() tree.NAryTree[string])) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fn(t, func() tree.NAryTree[string] {
				tr, err := New[string](name)
				require.NoError(t, err)
				return tr
			})
		})
	}
}

type sample struct {
	tree       tree.NAryTree[string]
	a, b, c, d tree.Position[string]
}

// buildSample builds A(B(D), C).
func buildSample(t *testing.T, tr tree.NAryTree[string]) sample {
	a, err := tr.AddRoot("A")
	require.NoError(t, err)
	b, err := tr.Add("B", a)
	require.NoError(t, err)
	c, err := tr.Add("C", a)
	require.NoError(t, err)
	d, err := tr.Add("D", b)
	require.NoError(t, err)
	return sample{tree: tr, a: a, b: b, c: c, d: d}
}

// elements lets a two-value traversal feed straight into an assertion:
// elements(t)(tree.PreOrder(tr)).
func elements(t *testing.T) func([]tree.Position[string], error) []string {
	return func(positions []tree.Position[string], err error) []string {
		t.Helper()
		require.NoError(t, err)
		return tree.Elements(positions)
	}
}

func Test_AddRoot(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		tr := newTree()
		require.True(t, tr.IsEmpty())
		require.Equal(t, 0, tr.Size())

		root, err := tr.AddRoot("A")
		require.NoError(t, err)
		assert.Equal(t, "A", root.Element())
		assert.Equal(t, 1, tr.Size())
		assert.False(t, tr.IsEmpty())

		_, err = tr.AddRoot("B")
		assert.ErrorIs(t, err, tree.ErrIllegalState)
		assert.Equal(t, 1, tr.Size())
	})
}

func Test_Root_Empty(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		_, err := newTree().Root()
		assert.ErrorIs(t, err, tree.ErrEmptyTree)
		assert.ErrorIs(t, err, tree.ErrIllegalState)
	})
}

func Test_Traversals(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		assert.Equal(t, []string{"A", "B", "D", "C"}, elements(t)(tree.PreOrder(s.tree)))
		assert.Equal(t, []string{"D", "B", "C", "A"}, elements(t)(tree.PostOrder(s.tree)))
		assert.Equal(t, []string{"A", "B", "C", "D"}, elements(t)(tree.BreadthFirst(s.tree)))
		assert.Equal(t, []string{"A", "B", "C", "D"}, tree.Elements(s.tree.Positions()))

		var all []string
		for p := range s.tree.All() {
			all = append(all, p.Element())
		}
		assert.Equal(t, []string{"A", "B", "C", "D"}, all)
	})
}

func Test_Traversals_Empty(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		tr := newTree()
		for _, walk := range []func(tree.NAryTree[string]) ([]tree.Position[string], error){
			tree.PreOrder[string], tree.PostOrder[string], tree.BreadthFirst[string],
		} {
			positions, err := walk(tr)
			require.NoError(t, err)
			require.NotNil(t, positions)
			assert.Empty(t, positions)
		}
		assert.NotNil(t, tr.Positions())
		assert.Empty(t, tr.Positions())
	})
}

func Test_PositionsIsSnapshot(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		snapshot := s.tree.Positions()
		_, err := s.tree.Add("E", s.c)
		require.NoError(t, err)
		assert.Len(t, snapshot, 4)
		assert.Len(t, s.tree.Positions(), 5)
	})
}

func Test_AddAt(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		tr := newTree()
		root, err := tr.AddRoot("R")
		require.NoError(t, err)

		_, err = tr.AddAt("a", root, 0)
		require.NoError(t, err)
		_, err = tr.Add("c", root)
		require.NoError(t, err)
		_, err = tr.AddAt("b", root, 1)
		require.NoError(t, err)
		_, err = tr.AddAt("z", root, 0)
		require.NoError(t, err)
		_, err = tr.AddAt("end", root, 4)
		require.NoError(t, err)

		children, err := tr.Children(root)
		assert.Equal(t, []string{"z", "a", "b", "c", "end"}, elements(t)(children, err))
		assert.Equal(t, 6, tr.Size())
	})
}

func Test_AddAt_OutOfRange(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		_, err := s.tree.AddAt("x", s.a, -1)
		assert.ErrorIs(t, err, tree.ErrIndexOutOfRange)
		_, err = s.tree.AddAt("x", s.a, 3)
		assert.ErrorIs(t, err, tree.ErrIndexOutOfRange)
		_, err = s.tree.AddAt("x", s.c, 1)
		assert.ErrorIs(t, err, tree.ErrIndexOutOfRange)

		assert.Equal(t, 4, s.tree.Size())
		assert.NoError(t, tree.Validate(s.tree))
	})
}

func Test_Queries(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		parent, err := s.tree.Parent(s.a)
		require.NoError(t, err)
		assert.Nil(t, parent)

		parent, err = s.tree.Parent(s.d)
		require.NoError(t, err)
		assert.Equal(t, s.b, parent)

		isRoot, err := s.tree.IsRoot(s.a)
		require.NoError(t, err)
		assert.True(t, isRoot)
		isRoot, err = s.tree.IsRoot(s.b)
		require.NoError(t, err)
		assert.False(t, isRoot)

		internal, err := s.tree.IsInternal(s.b)
		require.NoError(t, err)
		assert.True(t, internal)
		leaf, err := s.tree.IsLeaf(s.c)
		require.NoError(t, err)
		assert.True(t, leaf)
		internal, err = s.tree.IsInternal(s.c)
		require.NoError(t, err)
		assert.False(t, internal)

		children, err := s.tree.Children(s.c)
		require.NoError(t, err)
		assert.NotNil(t, children)
		assert.Empty(t, children)

		depth, err := tree.Depth(s.tree, s.d)
		require.NoError(t, err)
		assert.Equal(t, 2, depth)
		height, err := tree.Height(s.tree, s.a)
		require.NoError(t, err)
		assert.Equal(t, 2, height)
	})
}

func Test_Remove_SubtreeAccounting(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		e, err := s.tree.Add("E", s.b)
		require.NoError(t, err)
		require.Equal(t, 5, s.tree.Size())

		require.NoError(t, s.tree.Remove(s.b))

		assert.Equal(t, 2, s.tree.Size())
		assert.Equal(t, []string{"A", "C"}, elements(t)(tree.PreOrder(s.tree)))
		assert.NoError(t, tree.Validate(s.tree))

		for _, stale := range []tree.Position[string]{s.b, s.d, e} {
			_, err := s.tree.Children(stale)
			assert.ErrorIs(t, err, tree.ErrInvalidPosition)
			assert.Equal(t, "", stale.Element())
		}
	})
}

func Test_Remove_MiddleSibling(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		_, err := s.tree.Add("E", s.a)
		require.NoError(t, err)

		require.NoError(t, s.tree.Remove(s.c))

		children, err := s.tree.Children(s.a)
		assert.Equal(t, []string{"B", "E"}, elements(t)(children, err))
		assert.Equal(t, 4, s.tree.Size())
	})
}

func Test_Remove_Root(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		require.NoError(t, s.tree.Remove(s.a))

		assert.True(t, s.tree.IsEmpty())
		assert.Equal(t, 0, s.tree.Size())
		_, err := s.tree.Children(s.a)
		assert.ErrorIs(t, err, tree.ErrInvalidPosition)

		root, err := s.tree.AddRoot("Z")
		require.NoError(t, err)
		assert.Equal(t, 1, s.tree.Size())
		assert.Equal(t, "Z", root.Element())
	})
}

func Test_SwapElements_TopologyUnchanged(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		require.NoError(t, s.tree.SwapElements(s.b, s.c))

		assert.Equal(t, "C", s.b.Element())
		assert.Equal(t, "B", s.c.Element())
		parent, err := s.tree.Parent(s.b)
		require.NoError(t, err)
		assert.Equal(t, s.a, parent)
		children, err := s.tree.Children(s.b)
		require.NoError(t, err)
		assert.Equal(t, []tree.Position[string]{s.d}, children)
		assert.Equal(t, []string{"A", "C", "D", "B"}, elements(t)(tree.PreOrder(s.tree)))
	})
}

func Test_Replace(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		old, err := s.tree.Replace(s.d, "X")
		require.NoError(t, err)
		assert.Equal(t, "D", old)
		assert.Equal(t, "X", s.d.Element())
		assert.Equal(t, 4, s.tree.Size())
	})
}

func Test_CrossTreeRejection(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		t1 := buildSample(t, newTree())
		t2 := buildSample(t, newTree())
		foreign := t1.b

		checks := map[string]error{}
		_, checks["add"] = t2.tree.Add("x", foreign)
		_, checks["addAt"] = t2.tree.AddAt("x", foreign, 0)
		checks["swap"] = t2.tree.SwapElements(t2.b, foreign)
		_, checks["replace"] = t2.tree.Replace(foreign, "x")
		checks["remove"] = t2.tree.Remove(foreign)
		_, checks["subTree"] = t2.tree.SubTree(foreign)
		_, checks["extract"] = t2.tree.Extract(foreign)
		_, checks["parent"] = t2.tree.Parent(foreign)
		_, checks["children"] = t2.tree.Children(foreign)
		_, checks["isLeaf"] = t2.tree.IsLeaf(foreign)
		_, checks["isInternal"] = t2.tree.IsInternal(foreign)
		_, checks["isRoot"] = t2.tree.IsRoot(foreign)
		checks["attach"] = t2.tree.Attach(foreign, newTree())

		for op, err := range checks {
			assert.ErrorIs(t, err, tree.ErrInvalidPosition, op)
		}
		assert.Equal(t, 4, t1.tree.Size())
		assert.Equal(t, 4, t2.tree.Size())
		assert.Equal(t, "B", t2.b.Element())
	})
}

func Test_CrossRepresentationRejection(t *testing.T) {
	linkedTree, err := New[string]("linked")
	require.NoError(t, err)
	lcrsTree, err := New[string]("lcrs")
	require.NoError(t, err)

	linkedRoot, err := linkedTree.AddRoot("A")
	require.NoError(t, err)
	lcrsRoot, err := lcrsTree.AddRoot("A")
	require.NoError(t, err)

	_, err = lcrsTree.Add("B", linkedRoot)
	assert.ErrorIs(t, err, tree.ErrInvalidPosition)
	_, err = linkedTree.Add("B", lcrsRoot)
	assert.ErrorIs(t, err, tree.ErrInvalidPosition)

	_, err = linkedTree.Add("B", nil)
	assert.ErrorIs(t, err, tree.ErrInvalidPosition)

	err = linkedTree.Attach(linkedRoot, lcrsTree)
	assert.ErrorIs(t, err, tree.ErrIncompatibleRepresentation)
	err = lcrsTree.Attach(lcrsRoot, linkedTree)
	assert.ErrorIs(t, err, tree.ErrIncompatibleRepresentation)
	assert.Equal(t, 1, linkedTree.Size())
	assert.Equal(t, 1, lcrsTree.Size())
}

func Test_SubTree_Aliases(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)
		assert.Equal(t, 2, view.Size())
		assert.Equal(t, []string{"B", "D"}, elements(t)(tree.PreOrder(view)))

		viewRoot, err := view.Root()
		require.NoError(t, err)
		parent, err := view.Parent(viewRoot)
		require.NoError(t, err)
		assert.Nil(t, parent)
		isRoot, err := view.IsRoot(viewRoot)
		require.NoError(t, err)
		assert.True(t, isRoot)

		_, err = view.Add("X", viewRoot)
		require.NoError(t, err)
		assert.Equal(t, 5, s.tree.Size())
		children, err := s.tree.Children(s.b)
		assert.Equal(t, []string{"D", "X"}, elements(t)(children, err))

		_, err = s.tree.Add("Y", s.d)
		require.NoError(t, err)
		assert.Equal(t, 4, view.Size())
		assert.Equal(t, []string{"B", "D", "Y", "X"}, elements(t)(tree.PreOrder(view)))

		_, err = view.Replace(viewRoot, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", s.b.Element())

		assert.NoError(t, tree.Validate(view))
		assert.NoError(t, tree.Validate(s.tree))
	})
}

func Test_SubTree_Restrictions(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)

		_, err = view.AddRoot("Z")
		assert.ErrorIs(t, err, tree.ErrUnsupported)

		_, err = view.Add("Z", s.d)
		assert.ErrorIs(t, err, tree.ErrInvalidPosition)
	})
}

func Test_SubTree_SourceRemovesViewRoot(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)

		require.NoError(t, s.tree.Remove(s.b))

		assert.True(t, view.IsEmpty())
		assert.Equal(t, 0, view.Size())
		assert.Empty(t, view.Positions())
	})
}

func Test_SubTree_ViewRemovesItsRoot(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)
		viewRoot, err := view.Root()
		require.NoError(t, err)

		require.NoError(t, view.Remove(viewRoot))

		assert.True(t, view.IsEmpty())
		assert.Equal(t, 2, s.tree.Size())
		assert.Equal(t, []string{"A", "C"}, elements(t)(tree.PreOrder(s.tree)))
		assert.NoError(t, tree.Validate(s.tree))
	})
}

func Test_Extract(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())

		extracted, err := s.tree.Extract(s.b)
		require.NoError(t, err)

		assert.Equal(t, 2, s.tree.Size())
		assert.Equal(t, []string{"A", "C"}, elements(t)(tree.PreOrder(s.tree)))
		assert.Equal(t, 2, extracted.Size())
		assert.Equal(t, []string{"B", "D"}, elements(t)(tree.PreOrder(extracted)))
		assert.Equal(t, s.tree.Representation(), extracted.Representation())

		_, err = s.tree.Children(s.b)
		assert.ErrorIs(t, err, tree.ErrInvalidPosition)

		root, err := extracted.Root()
		require.NoError(t, err)
		_, err = extracted.Add("X", root)
		require.NoError(t, err)
		assert.Equal(t, 2, s.tree.Size())
		assert.NoError(t, tree.Validate(extracted))
		assert.NoError(t, tree.Validate(s.tree))
	})
}

func Test_Attach(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		donor := newTree()
		x, err := donor.AddRoot("X")
		require.NoError(t, err)
		_, err = donor.Add("Y", x)
		require.NoError(t, err)
		_, err = donor.Add("Z", x)
		require.NoError(t, err)

		require.NoError(t, s.tree.Attach(s.a, donor))

		assert.Equal(t, 7, s.tree.Size())
		assert.Equal(t, []string{"A", "B", "D", "C", "X", "Y", "Z"}, elements(t)(tree.PreOrder(s.tree)))
		assert.True(t, donor.IsEmpty())
		assert.Equal(t, 0, donor.Size())
		assert.Equal(t, "", x.Element())
		assert.NoError(t, tree.Validate(s.tree))

		children, err := s.tree.Children(s.a)
		require.NoError(t, err)
		attached := children[len(children)-1]
		parent, err := s.tree.Parent(attached)
		require.NoError(t, err)
		assert.Equal(t, s.a, parent)
	})
}

func Test_Attach_ViewDonor(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		source := buildSample(t, newTree())
		view, err := source.tree.SubTree(source.b)
		require.NoError(t, err)

		require.NoError(t, s.tree.Attach(s.c, view))

		assert.Equal(t, []string{"A", "B", "D", "C", "B", "D"}, elements(t)(tree.PreOrder(s.tree)))
		assert.Equal(t, 6, s.tree.Size())
		assert.True(t, view.IsEmpty())
		assert.Equal(t, []string{"A", "C"}, elements(t)(tree.PreOrder(source.tree)))
		assert.Equal(t, 2, source.tree.Size())
		assert.NoError(t, tree.Validate(source.tree))
	})
}

func Test_Attach_SharedStore(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)

		assert.ErrorIs(t, s.tree.Attach(s.c, view), tree.ErrIllegalState)
		assert.ErrorIs(t, s.tree.Attach(s.c, s.tree), tree.ErrIllegalState)
		assert.Equal(t, 4, s.tree.Size())
	})
}

func Test_Attach_EmptyDonor(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		require.NoError(t, s.tree.Attach(s.c, newTree()))
		assert.Equal(t, 4, s.tree.Size())
	})
}

func Test_Attach_IntoView(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, newTree func() tree.NAryTree[string]) {
		s := buildSample(t, newTree())
		view, err := s.tree.SubTree(s.b)
		require.NoError(t, err)
		viewRoot, err := view.Root()
		require.NoError(t, err)
		donor := newTree()
		_, err = donor.AddRoot("X")
		require.NoError(t, err)

		require.NoError(t, view.Attach(viewRoot, donor))

		assert.Equal(t, 3, view.Size())
		assert.Equal(t, 5, s.tree.Size())
		assert.NoError(t, tree.Validate(s.tree))
	})
}

// Test_RepresentationEquivalence replays the same random operations on every
// representation and compares the results after each step.
func Test_RepresentationEquivalence(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*31))
			var trees []tree.NAryTree[string]
			for _, name := range Names() {
				tr, err := New[string](name)
				require.NoError(t, err)
				trees = append(trees, tr)
			}

			for step := 0; step < 200; step++ {
				label := fmt.Sprintf("n%d", step)
				op := rng.IntN(12)
				first := trees[0].Positions()
				i, j, k := 0, 0, rng.IntN(1<<16)
				index := 0
				if len(first) > 0 {
					i, j = rng.IntN(len(first)), rng.IntN(len(first))
					children, err := trees[0].Children(first[i])
					require.NoError(t, err)
					index = rng.IntN(len(children) + 1)
					if op == 7 && i == 0 && rng.IntN(2) == 0 {
						// spare the root half of the time so trees keep growing
						i = len(first) - 1
					}
					if op == 10 && len(first) < 2 {
						op = 11
					}
					if op == 10 && i == 0 {
						i = 1 + rng.IntN(len(first)-1)
					}
				}

				for _, tr := range trees {
					positions := tr.Positions()
					var err error
					switch {
					case len(positions) == 0:
						_, err = tr.AddRoot(label)
					case op < 4:
						_, err = tr.Add(label, positions[i])
					case op < 7:
						_, err = tr.AddAt(label, positions[i], index)
					case op < 8:
						err = tr.Remove(positions[i])
					case op < 9:
						err = tr.SwapElements(positions[i], positions[j])
					case op < 10:
						_, err = tr.Replace(positions[i], label)
					case op < 11:
						err = extractAndReattach(tr, positions[i], k)
					default:
						err = growThroughView(tr, positions[i], label)
					}
					require.NoError(t, err)
					require.NoError(t, tree.Validate(tr))
				}

				for _, other := range trees[1:] {
					require.Equal(t, trees[0].Size(), other.Size())
					require.Equal(t,
						elements(t)(tree.PreOrder(trees[0])),
						elements(t)(tree.PreOrder(other)))
					require.Equal(t,
						elements(t)(tree.PostOrder(trees[0])),
						elements(t)(tree.PostOrder(other)))
					require.Equal(t,
						tree.Elements(trees[0].Positions()),
						tree.Elements(other.Positions()))
					equal, err := tree.Equal(trees[0], other)
					require.NoError(t, err)
					require.True(t, equal)
				}
			}
		})
	}
}

// extractAndReattach detaches the subtree at p and attaches it back under the
// k-th remaining node in breadth-first order.
func extractAndReattach(tr tree.NAryTree[string], p tree.Position[string], k int) error {
	side, err := tr.Extract(p)
	if err != nil {
		return err
	}
	remaining := tr.Positions()
	return tr.Attach(remaining[k%len(remaining)], side)
}

// growThroughView adds a child through a view rooted at p, then attaches a
// second view, taken from a fresh two-node tree, under the same node.
func growThroughView(tr tree.NAryTree[string], p tree.Position[string], label string) error {
	view, err := tr.SubTree(p)
	if err != nil {
		return err
	}
	root, err := view.Root()
	if err != nil {
		return err
	}
	if _, err := view.Add(label, root); err != nil {
		return err
	}

	donor, err := New[string](tr.Representation())
	if err != nil {
		return err
	}
	d, err := donor.AddRoot(label + "-d")
	if err != nil {
		return err
	}
	e, err := donor.Add(label+"-e", d)
	if err != nil {
		return err
	}
	if _, err := donor.Add(label+"-f", e); err != nil {
		return err
	}
	donorView, err := donor.SubTree(e)
	if err != nil {
		return err
	}
	if err := view.Attach(root, donorView); err != nil {
		return err
	}
	if donor.Size() != 1 {
		return fmt.Errorf("donor view was not consumed: size %d", donor.Size())
	}
	return nil
}
