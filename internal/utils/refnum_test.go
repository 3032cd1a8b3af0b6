package utils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestReferenceNumberFormat(t *testing.T) {
	gen := NewReferenceNumberGenerator(NewMemoryCounterSource())

	ref, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	year := time.Now().UTC().Year()
	want := fmt.Sprintf("LDA-%d-000001", year)
	if ref != want {
		t.Errorf("got %q, want %q", ref, want)
	}
}

func TestReferenceNumbersStrictlyIncreasing(t *testing.T) {
	gen := NewReferenceNumberGenerator(NewMemoryCounterSource())

	seen := make(map[string]bool)
	prev := int64(0)
	for i := 0; i < 50; i++ {
		ref, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate #%d: %v", i, err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference number %q", ref)
		}
		seen[ref] = true

		parts := strings.Split(ref, "-")
		if len(parts) != 3 {
			t.Fatalf("malformed reference %q", ref)
		}
		if len(parts[2]) != 6 {
			t.Errorf("sequence %q is not zero padded to 6 digits", parts[2])
		}
		seq, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			t.Fatalf("sequence parse %q: %v", parts[2], err)
		}
		if seq <= prev {
			t.Fatalf("sequence not strictly increasing: %d after %d", seq, prev)
		}
		prev = seq
	}
}
