package exprtree

import (
	"testing"

	"jitir/internal/errors"
	"jitir/internal/exprop"
)

// Scenario 1: CONST, CONST, ADD — arena length 9, post-order visits
// [CONST, CONST, ADD].
func TestAppendConstAdd(t *testing.T) {
	tr := New()
	c1, err := tr.Append(exprop.CONST, nil, []Cell{42, 8}, nil)
	if err != nil {
		t.Fatalf("append const1: %v", err)
	}
	c2, err := tr.Append(exprop.CONST, nil, []Cell{1, 8}, nil)
	if err != nil {
		t.Fatalf("append const2: %v", err)
	}
	add, err := tr.Append(exprop.ADD, []int{c1, c2}, nil, nil)
	if err != nil {
		t.Fatalf("append add: %v", err)
	}
	if len(tr.Cells) != 9 {
		t.Fatalf("arena length = %d, want 9", len(tr.Cells))
	}
	if tr.Child(add, 0) != c1 || tr.Child(add, 1) != c2 {
		t.Fatalf("ADD children = (%d,%d), want (%d,%d)", tr.Child(add, 0), tr.Child(add, 1), c1, c2)
	}
	if err := tr.AddRoot(add); err != nil {
		t.Fatalf("add root: %v", err)
	}

	var order []exprop.Op
	trav := NewTraverser(nil, nil, func(tt *Tree, node int) {
		order = append(order, tt.Op(node))
	})
	trav.Traverse(tr)
	want := []exprop.Op{exprop.CONST, exprop.CONST, exprop.ADD}
	if len(order) != len(want) {
		t.Fatalf("post-order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("post-order = %v, want %v", order, want)
		}
	}
}

// Scenario 2: LOAD whose single child is a CONST (REG, not MEM) fails
// with a malformed-operand error.
func TestLoadRejectsNonMemChild(t *testing.T) {
	tr := New()
	c, err := tr.Append(exprop.CONST, nil, []Cell{1, 8}, nil)
	if err != nil {
		t.Fatalf("append const: %v", err)
	}
	_, err = tr.Append(exprop.LOAD, []int{c}, []Cell{0}, nil)
	if err == nil {
		t.Fatal("expected malformed-IR error, got nil")
	}
	var irErr *errors.IRError
	if !errorsAs(err, &irErr) {
		t.Fatalf("expected *errors.IRError, got %T", err)
	}
	if irErr.Kind != errors.MalformedOperand {
		t.Fatalf("kind = %v, want MalformedOperand", irErr.Kind)
	}
}

func TestWidthInvariant(t *testing.T) {
	tr := New()
	c1, _ := tr.Append(exprop.CONST, nil, []Cell{1, 8}, nil)
	c2, _ := tr.Append(exprop.CONST, nil, []Cell{2, 8}, nil)
	c3, _ := tr.Append(exprop.CONST, nil, []Cell{3, 8}, nil)
	all, err := tr.Append(exprop.DO, []int{c1, c2, c3}, nil, nil)
	if err != nil {
		t.Fatalf("append DO: %v", err)
	}
	// DO is variadic: the count packs into the header word, so
	// width = 1 (header) + 3 (children) + 0 (nargs) = 4.
	if w := len(tr.Cells) - all; w != 4 {
		t.Fatalf("DO width = %d, want 4", w)
	}
	if tr.childCount(all) != 3 {
		t.Fatalf("DO child count = %d, want 3", tr.childCount(all))
	}
}

func TestRootsBoundsChecked(t *testing.T) {
	tr := New()
	if err := tr.AddRoot(0); err == nil {
		t.Fatal("expected error adding root to empty arena")
	}
	c, _ := tr.Append(exprop.CONST, nil, []Cell{1, 8}, nil)
	if err := tr.AddRoot(c); err != nil {
		t.Fatalf("add valid root: %v", err)
	}
	if err := tr.AddRoot(len(tr.Cells) + 100); err == nil {
		t.Fatal("expected error adding out-of-bounds root")
	}
}

func TestLabelDuplicateAndMissing(t *testing.T) {
	tr := New()
	id := tr.NewLabel()
	if _, err := tr.AppendLabel(id, nil); err != nil {
		t.Fatalf("first label def: %v", err)
	}
	if _, err := tr.AppendLabel(id, nil); err == nil {
		t.Fatal("expected DuplicateLabel error on redefinition")
	}

	tr2 := New()
	other := tr2.NewLabel()
	if _, err := tr2.AppendBranch(other, nil); err != nil {
		t.Fatalf("append branch: %v", err)
	}
	if err := tr2.VerifyLabels(); err == nil {
		t.Fatal("expected MissingLabel error for undefined branch target")
	}
	if _, err := tr2.AppendLabel(other, nil); err != nil {
		t.Fatalf("define label: %v", err)
	}
	if err := tr2.VerifyLabels(); err != nil {
		t.Fatalf("expected labels to verify once defined: %v", err)
	}
}

func errorsAs(err error, target **errors.IRError) bool {
	if e, ok := err.(*errors.IRError); ok {
		*target = e
		return true
	}
	return false
}
