package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	b, _ := gen.NewID()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("id %q is not a uuid: %v", a, err)
	}
}
