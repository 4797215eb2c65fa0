package utils

import "testing"

func TestIDSetNoDuplicates(t *testing.T) {
	s := NewIDSet()

	if !s.Add(4127345) {
		t.Error("first Add should return true")
	}
	if s.Add(4127345) {
		t.Error("second Add of same id should return false")
	}
	if !s.Contains(4127345) {
		t.Error("Contains should report the added id")
	}
	if s.Contains(999) {
		t.Error("Contains should not report an unknown id")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}
