package exprtree

import "jitir/internal/exprop"

// PreFn, InFn and PostFn are the callbacks a tiler or other consumer
// supplies to Traverse. InFn fires after each child, the last one
// included, once that child (at childIdx) has been fully visited.
type PreFn func(t *Tree, node int)
type InFn func(t *Tree, node, childIdx int)
type PostFn func(t *Tree, node int)

// Traverser drives a single depth-first walk over a tree's roots, firing
// pre/in/post callbacks and recording how many times each node has been
// entered. Multi-root DAGs may share nodes; callbacks consult Visits to
// decide whether to short-circuit on a revisit.
type Traverser struct {
	Pre  PreFn
	In   InFn
	Post PostFn

	Visits []int32
}

// NewTraverser builds a traverser with the given callbacks; any of them
// may be nil.
func NewTraverser(pre PreFn, in InFn, post PostFn) *Traverser {
	return &Traverser{Pre: pre, In: in, Post: post}
}

// Traverse walks every root of t in declaration order. Each root's
// subtree is walked depth-first; pre/in/post callbacks for a subtree
// bracket its children's callbacks.
func (tr *Traverser) Traverse(t *Tree) {
	tr.Visits = make([]int32, len(t.Cells))
	for _, root := range t.Roots {
		tr.walk(t, root)
	}
}

func (tr *Traverser) walk(t *Tree, node int) {
	tr.Visits[node]++
	if tr.Pre != nil {
		tr.Pre(t, node)
	}

	op := exprop.Op(t.Cells[node])
	if op != exprop.LABEL && op != exprop.BRANCH {
		n := t.childCount(node)
		for i := 0; i < n; i++ {
			child := t.Child(node, i)
			tr.walk(t, child)
			if tr.In != nil {
				tr.In(t, node, i)
			}
		}
	}

	if tr.Post != nil {
		tr.Post(t, node)
	}
}

// VisitCount returns how many times node has been entered by the most
// recent Traverse call, 0 if Traverse has not run or node was never
// reached.
func (tr *Traverser) VisitCount(node int) int32 {
	if node < 0 || node >= len(tr.Visits) {
		return 0
	}
	return tr.Visits[node]
}
