package ins

import "testing"

func TestRefString(t *testing.T) {
	r := NewRef(OpAdd, "foo.vm", 10, 1, 2)
	if r.String() != "add" {
		t.Fatalf("got %q, want %q", r.String(), "add")
	}
	if r.Operands[0] != 1 || r.Operands[1] != 2 {
		t.Fatalf("operands = %v, want [1 2 0]", r.Operands)
	}
	var nilRef *Ref
	if nilRef.String() != "<none>" {
		t.Fatalf("nil ref String() = %q, want <none>", nilRef.String())
	}
}
