package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/testament/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("wills", "id")
	b := NewSequence("wills", "other")

	prev, err := a.NextVal(db)
	if err != nil {
		t.Fatalf("cannot get next value: %s", err)
	}
	for i := 0; i < 5; i++ {
		next, err := a.NextVal(db)
		if err != nil {
			t.Fatalf("cannot get next value: %s", err)
		}
		if bytes.Compare(prev, next) >= 0 {
			t.Fatalf("%X is not greater than %X", next, prev)
		}
		prev = next
	}

	if n, err := b.NextInt(db); err != nil || n != 1 {
		t.Fatalf("sequences must be independent, got %d, %v", n, err)
	}
	if n, _, err := a.Latest(db); err != nil || n != 6 {
		t.Fatalf("want 6, got %d, %v", n, err)
	}
}
