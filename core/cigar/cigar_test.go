package cigar

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	c, err := Parse("5S10M2I3D4=1X2H")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Op{{5, SoftClip}, {10, Match}, {2, Insertion}, {3, Deletion}, {5, Match}, {2, HardClip}}
	if diff := cmp.Diff(want, c.Ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if got := c.AlignedLength(); got != 15 {
		t.Fatalf("aligned length: want 15, got %d", got)
	}
	if got := c.QueryLength(); got != 22 {
		t.Fatalf("query length: want 22, got %d", got)
	}
	if c.Unaligned() {
		t.Fatal("not a wildcard")
	}
}

func TestParseWildcard(t *testing.T) {
	c, err := Parse("*")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !c.Unaligned() || c.String() != "*" {
		t.Fatalf("want unaligned wildcard, got %+v", c)
	}
	w := NewWalker(c, 0, 100)
	if w.Next() {
		t.Fatal("wildcard walk must be empty")
	}
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"", "M", "10", "3M2Q", "3MM", "10M5"} {
		if _, err := Parse(s); !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: want ErrMalformed, got %v", s, err)
		}
	}
}

func walkAll(t *testing.T, cig string, start, refLen int) ([]Step, bool) {
	t.Helper()
	c, err := Parse(cig)
	if err != nil {
		t.Fatalf("parse %q: %v", cig, err)
	}
	w := NewWalker(c, start, refLen)
	var out []Step
	for w.Next() {
		out = append(out, w.Step())
	}
	return out, w.Truncated()
}

func TestWalkCursorsAcrossOperations(t *testing.T) {
	got, trunc := walkAll(t, "2S2M2I1M2D1M", 10, 100)
	want := []Step{
		{Kind: Match, Ref: 10, Query: 2},
		{Kind: Match, Ref: 11, Query: 3},
		{Kind: Insertion, Ref: 11, Query: 4, RunStart: true},
		{Kind: Insertion, Ref: 11, Query: 5},
		{Kind: Match, Ref: 12, Query: 6},
		{Kind: Deletion, Ref: 13, Query: -1},
		{Kind: Deletion, Ref: 14, Query: -1},
		{Kind: Match, Ref: 15, Query: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if trunc {
		t.Fatal("walk should not be truncated")
	}
}

func TestWalkTruncatesAtReferenceEnd(t *testing.T) {
	got, trunc := walkAll(t, "6M", 7, 10)
	if !trunc {
		t.Fatal("expected truncation")
	}
	if len(got) != 3 || got[2].Ref != 9 {
		t.Fatalf("want 3 in-bounds steps ending at 9, got %+v", got)
	}
}

func TestWalkInsertionAtContigEndKept(t *testing.T) {
	got, trunc := walkAll(t, "2M2I", 8, 10)
	if trunc {
		t.Fatal("insertion after the last base attaches to it; no truncation")
	}
	if len(got) != 4 || got[3].Kind != Insertion || got[3].Ref != 9 {
		t.Fatalf("unexpected steps: %+v", got)
	}
}

func TestWalkLeadingInsertionDropped(t *testing.T) {
	got, _ := walkAll(t, "2I3M", 0, 10)
	if len(got) != 3 {
		t.Fatalf("want only the 3 match steps, got %+v", got)
	}
	if got[0].Query != 2 || got[0].Ref != 0 {
		t.Fatalf("query cursor must still advance past the insertion: %+v", got[0])
	}
}

func TestWalkHardClipDoesNotMoveQuery(t *testing.T) {
	got, _ := walkAll(t, "5H3M", 4, 10)
	if got[0].Query != 0 || got[0].Ref != 4 {
		t.Fatalf("hard clip should not consume SEQ: %+v", got[0])
	}
}
