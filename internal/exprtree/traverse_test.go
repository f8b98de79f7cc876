package exprtree

import (
	"testing"

	"jitir/internal/exprop"
)

func TestTraverseSharedSubtreeVisitCounts(t *testing.T) {
	tr := New()
	c, _ := tr.Append(exprop.CONST, nil, []Cell{7, 8}, nil)
	add, _ := tr.Append(exprop.ADD, []int{c, c}, nil, nil)
	cp, _ := tr.Append(exprop.COPY, []int{c}, nil, nil)
	if err := tr.AddRoot(add); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddRoot(cp); err != nil {
		t.Fatal(err)
	}

	var inCalls []int
	trav := NewTraverser(nil, func(tt *Tree, node, childIdx int) {
		if node == add {
			inCalls = append(inCalls, childIdx)
		}
	}, nil)
	trav.Traverse(tr)

	if got := trav.VisitCount(c); got != 3 {
		t.Fatalf("shared CONST visit count = %d, want 3 (two occurrences under ADD, one under COPY)", got)
	}
	if len(inCalls) != 2 || inCalls[0] != 0 || inCalls[1] != 1 {
		t.Fatalf("inorder callback order = %v, want [0 1]", inCalls)
	}
}

func TestTraverseVisitsRootsInDeclarationOrder(t *testing.T) {
	tr := New()
	c1, _ := tr.Append(exprop.CONST, nil, []Cell{1, 8}, nil)
	c2, _ := tr.Append(exprop.CONST, nil, []Cell{2, 8}, nil)
	tr.AddRoot(c2)
	tr.AddRoot(c1)

	var visited []int
	trav := NewTraverser(func(tt *Tree, node int) { visited = append(visited, node) }, nil, nil)
	trav.Traverse(tr)
	if len(visited) != 2 || visited[0] != c2 || visited[1] != c1 {
		t.Fatalf("visit order = %v, want [%d %d]", visited, c2, c1)
	}
}
