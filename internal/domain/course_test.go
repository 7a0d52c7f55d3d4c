package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeCode(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"ifcd0210", "IFCD0210"},
		{"  IFCD0210  ", "IFCD0210"},
		{"\tadgd0308\n", "ADGD0308"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range testCases {
		result := NormalizeCode(tc.input)
		if result != tc.expected {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestDetailURL(t *testing.T) {
	// Empty and blank codes produce no URL.
	if got := DetailURL(""); got != "" {
		t.Errorf("DetailURL(\"\") = %q, want empty", got)
	}
	if got := DetailURL("   "); got != "" {
		t.Errorf("DetailURL(blank) = %q, want empty", got)
	}

	got := DetailURL("ifcd0210")
	if !strings.HasSuffix(got, "codEspecialidad=IFCD0210") {
		t.Errorf("DetailURL(ifcd0210) = %q, want codEspecialidad=IFCD0210 suffix", got)
	}

	// Pure function: same input, same output, and case/whitespace variants
	// converge on the same URL.
	if DetailURL("IFCD0210") != DetailURL(" ifcd0210 ") {
		t.Error("DetailURL should be insensitive to case and surrounding whitespace")
	}
}

func TestSetSpecialtyCodeKeepsURLInSync(t *testing.T) {
	c := Course{}
	c.SetSpecialtyCode("IFCD0210")
	if c.DetailURL != DetailURL("IFCD0210") {
		t.Errorf("DetailURL = %q, want %q", c.DetailURL, DetailURL("IFCD0210"))
	}

	c.SetSpecialtyCode("ADGD0308")
	if c.DetailURL != DetailURL("ADGD0308") {
		t.Errorf("after update DetailURL = %q, want %q", c.DetailURL, DetailURL("ADGD0308"))
	}

	c.SetSpecialtyCode("")
	if c.DetailURL != "" {
		t.Errorf("after clearing code DetailURL = %q, want empty", c.DetailURL)
	}
}

func TestRecordIDUniqueWithinBatch(t *testing.T) {
	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := RecordID(loadedAt, i)
		if seen[id] {
			t.Fatalf("duplicate id %q at ordinal %d", id, i)
		}
		seen[id] = true
	}

	// A later load produces a disjoint id space.
	other := RecordID(loadedAt.Add(time.Second), 0)
	if seen[other] {
		t.Errorf("id %q from a later load collides with the previous batch", other)
	}
}

func TestBatchByID(t *testing.T) {
	b := Batch{Courses: []Course{{ID: "a"}, {ID: "b"}}}

	c := b.ByID("b")
	if c == nil {
		t.Fatal("ByID(b) returned nil")
	}
	c.Level = "2"
	if b.Courses[1].Level != "2" {
		t.Error("ByID should return a pointer into the batch")
	}

	if b.ByID("missing") != nil {
		t.Error("ByID(missing) should return nil")
	}
}

func TestBatchPendingIDs(t *testing.T) {
	b := Batch{Courses: []Course{
		{ID: "a", Level: "2"},
		{ID: "b"},
		{ID: "c", Level: ""},
	}}

	pending := b.PendingIDs()
	if len(pending) != 2 || pending[0] != "b" || pending[1] != "c" {
		t.Errorf("PendingIDs() = %v, want [b c]", pending)
	}
}
