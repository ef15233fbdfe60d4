package logger

import "testing"

func TestNew(t *testing.T) {
	for _, debug := range []bool{false, true} {
		if New(debug) == nil {
			t.Fatalf("New(%v) returned nil", debug)
		}
	}
}

func TestOr(t *testing.T) {
	if Or(nil) == nil {
		t.Fatalf("Or(nil) should return a no-op logger")
	}
	l := New(false)
	if Or(l) != l {
		t.Fatalf("Or should return the given logger")
	}
}
