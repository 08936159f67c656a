package estimates

import (
	"testing"
)

func TestNextVersion_Sequence(t *testing.T) {
	current := Version{}
	want := []string{"1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8", "1.9", "2.1", "2.2"}

	for i, expected := range want {
		next := NextVersion(current)
		if next.String() != expected {
			t.Fatalf("step %d: expected %s, got %s", i, expected, next)
		}
		if !current.Less(next) {
			t.Fatalf("step %d: %s is not greater than %s", i, next, current)
		}
		current = next
	}
}

func TestNextVersion_MinorRollsAtNine(t *testing.T) {
	next := NextVersion(Version{Major: 3, Minor: 9})
	if next.String() != "4.1" {
		t.Fatalf("expected 4.1, got %s", next)
	}
}

func TestMaxVersion_NumericOrdering(t *testing.T) {
	// "1.10" never occurs in allocated sequences, but ordering must stay
	// numeric regardless of what is stored.
	max, err := MaxVersion([]string{"1.2", "1.10", "1.9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if max.String() != "1.10" {
		t.Fatalf("expected 1.10, got %s", max)
	}
}

func TestMaxVersion_EmptyMeansZero(t *testing.T) {
	max, err := MaxVersion(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if max != (Version{}) {
		t.Fatalf("expected zero version, got %s", max)
	}
	if NextVersion(max).String() != "1.1" {
		t.Fatalf("first allocation must be 1.1, got %s", NextVersion(max))
	}
}

func TestParseVersion_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "1", "1.", ".1", "a.b", "1.-2", "-1.1"} {
		if _, err := ParseVersion(raw); err == nil {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}
