package errors

import "testing"

func TestNewFormatsSite(t *testing.T) {
	err := New(MalformedOperand, 5, "LOAD", "child has wrong result type")
	want := "MalformedOperand: child has wrong result type (node 5, op LOAD)"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestNewNoSite(t *testing.T) {
	err := New(ArenaExhausted, -1, "", "arena growth would exceed MaxArenaCells")
	want := "ArenaExhausted: arena growth would exceed MaxArenaCells"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
