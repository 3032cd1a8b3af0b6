package facts

import (
	"errors"
	"testing"

	"github.com/lexassist/lexassist/internal/utils"
)

func TestCompletenessEmpty(t *testing.T) {
	s := NewSet()
	if c := s.Completeness(); c != 0 {
		t.Errorf("empty set completeness = %v, want 0", c)
	}
}

func TestCompletenessRatio(t *testing.T) {
	s := NewSet()
	s.Upsert("name", "Kumar", "analyzer", nil)
	s.Upsert("date", "yesterday", "analyzer", nil)
	s.Upsert("location", "market", "analyzer", nil)
	s.Upsert("accused", "unknown", "analyzer", nil)

	if err := s.Confirm("name"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if c := s.Completeness(); c != 0.25 {
		t.Errorf("completeness = %v, want 0.25", c)
	}
	if c := s.Completeness(); c < 0 || c > 1 {
		t.Errorf("completeness out of range: %v", c)
	}
}

func TestConfirmMissingKey(t *testing.T) {
	s := NewSet()
	err := s.Confirm("nope")
	if !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("Confirm on missing key = %v, want ErrNotFound", err)
	}
}

func TestConfirmIsSticky(t *testing.T) {
	s := NewSet()
	s.Upsert("date", "yesterday", "analyzer", nil)
	if err := s.Confirm("date"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// A later extraction overwrites the value but never the flag.
	s.Upsert("date", "2024-01-15", "analyzer", nil)

	f, ok := s.Get("date")
	if !ok {
		t.Fatal("fact vanished")
	}
	if f.Value != "2024-01-15" {
		t.Errorf("value = %q, want overwritten value", f.Value)
	}
	if !f.Confirmed {
		t.Error("upsert reset confirmed back to false")
	}
}

func TestUpsertStartsUnconfirmed(t *testing.T) {
	s := NewSet()
	s.Upsert("name", "Kumar", "analyzer", nil)
	if f, _ := s.Get("name"); f.Confirmed {
		t.Error("new fact should start unconfirmed")
	}
}
