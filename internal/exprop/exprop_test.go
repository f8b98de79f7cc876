package exprop

import "testing"

func TestLookupWidths(t *testing.T) {
	tests := []struct {
		op     Op
		nchild int32
		nargs  int32
		result ValueType
	}{
		{LOAD, 1, 1, REG},
		{STORE, 2, 1, VOID},
		{CONST, 0, 2, REG},
		{ADD, 2, 0, REG},
		{IF, 3, 0, REG},
		{ALL, Variadic, 0, FLAG},
		{ARGLIST, Variadic, 0, VOID},
	}
	for _, tt := range tests {
		info := Lookup(tt.op)
		if info.NChild != tt.nchild || info.NArgs != tt.nargs || info.Result != tt.result {
			t.Errorf("%s: got %+v, want nchild=%d nargs=%d result=%s", tt.op, info, tt.nchild, tt.nargs, tt.result)
		}
	}
}

func TestIsVariadic(t *testing.T) {
	for _, op := range []Op{ALL, ANY, DO, ARGLIST} {
		if !IsVariadic(op) {
			t.Errorf("%s should be variadic", op)
		}
	}
	for _, op := range []Op{ADD, LOAD, CONST} {
		if IsVariadic(op) {
			t.Errorf("%s should not be variadic", op)
		}
	}
}

func TestOpString(t *testing.T) {
	if LOAD.String() != "LOAD" {
		t.Errorf("got %q", LOAD.String())
	}
	if Op(-1).String() != "INVALID" {
		t.Errorf("expected INVALID for out-of-range op")
	}
}
