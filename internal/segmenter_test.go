package internal

import (
	"errors"
	"testing"
	"time"
)

var testDay = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestSegmenter_EmptyInput(t *testing.T) {
	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", nil)
	if err != nil {
		t.Fatalf("Segment() error = %v, want nil", err)
	}
	if len(blocks) != 0 {
		t.Errorf("Segment() returned %d blocks, want 0", len(blocks))
	}
}

func TestSegmenter_GapAndAppSplit(t *testing.T) {
	// Three Chrome observations five-ish minutes apart, then a Terminal
	// observation after a 28 minute silence: two blocks.
	observations := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "Docs"},
		{Timestamp: at(9, 5), App: "Chrome", Title: "Docs"},
		{Timestamp: at(9, 12), App: "Chrome", Title: "Mail"},
		{Timestamp: at(9, 40), App: "Terminal", Title: "vim"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Segment() returned %d blocks, want 2", len(blocks))
	}

	first := blocks[0]
	if first.App != "Chrome" {
		t.Errorf("first block app = %q, want Chrome", first.App)
	}
	if !first.Start.Equal(at(9, 0)) {
		t.Errorf("first block start = %v, want 09:00", first.Start)
	}
	// Trailing observation closes at its timestamp plus one sampling
	// interval, not at the next block's distant start.
	if !first.End.Equal(at(9, 17)) {
		t.Errorf("first block end = %v, want 09:17", first.End)
	}
	if first.Count != 3 {
		t.Errorf("first block count = %d, want 3", first.Count)
	}

	second := blocks[1]
	if second.App != "Terminal" {
		t.Errorf("second block app = %q, want Terminal", second.App)
	}
	if !second.Start.Equal(at(9, 40)) || !second.End.Equal(at(9, 45)) {
		t.Errorf("second block span = %v-%v, want 09:40-09:45", second.Start, second.End)
	}
}

func TestSegmenter_AppChangeCapsExtension(t *testing.T) {
	// App changes two minutes in: the first block's interval extension must
	// stop at the next block's start so blocks stay disjoint.
	observations := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "Docs"},
		{Timestamp: at(9, 2), App: "Terminal", Title: "vim"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Segment() returned %d blocks, want 2", len(blocks))
	}
	if !blocks[0].End.Equal(at(9, 2)) {
		t.Errorf("first block end = %v, want 09:02 (capped at next start)", blocks[0].End)
	}
}

func TestSegmenter_BlocksDisjointAndPositive(t *testing.T) {
	observations := []Observation{
		{Timestamp: at(8, 30), App: "Slack", Title: "general"},
		{Timestamp: at(8, 35), App: "Slack", Title: "general"},
		{Timestamp: at(8, 36), App: "Chrome", Title: "Jira"},
		{Timestamp: at(8, 41), App: "Chrome", Title: "Jira"},
		{Timestamp: at(10, 0), App: "Chrome", Title: "Docs"},
		{Timestamp: at(10, 5), App: "Terminal", Title: "build"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	for i, b := range blocks {
		if b.Duration() <= 0 {
			t.Errorf("block %d duration = %v, want > 0", i, b.Duration())
		}
		if i > 0 && blocks[i-1].End.After(b.Start) {
			t.Errorf("block %d overlaps block %d: %v > %v", i-1, i, blocks[i-1].End, b.Start)
		}
	}

	// Every observation falls inside exactly one block.
	for _, o := range observations {
		count := 0
		for _, b := range blocks {
			if !o.Timestamp.Before(b.Start) && !o.Timestamp.After(b.End) {
				count++
			}
		}
		if count < 1 {
			t.Errorf("observation at %v not covered by any block", o.Timestamp)
		}
	}
}

func TestSegmenter_DominantFromFirstObservation(t *testing.T) {
	observations := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "First title"},
		{Timestamp: at(9, 5), App: "Chrome", Title: "Second title"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if blocks[0].Title != "First title" {
		t.Errorf("representative title = %q, want %q", blocks[0].Title, "First title")
	}
	if len(blocks[0].Titles) != 2 {
		t.Errorf("collected titles = %d, want 2", len(blocks[0].Titles))
	}
}

func TestSegmenter_RejectsOutOfOrder(t *testing.T) {
	observations := []Observation{
		{Timestamp: at(9, 30), App: "Chrome"},
		{Timestamp: at(9, 0), App: "Chrome"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err == nil {
		t.Fatal("Segment() with unsorted input should fail")
	}
	if blocks != nil {
		t.Error("Segment() must not emit partial blocks for a malformed day")
	}

	var oe *ObservationError
	if !errors.As(err, &oe) {
		t.Fatalf("error type = %T, want *ObservationError", err)
	}
	if oe.Index != 1 || oe.Date != "2024-03-14" {
		t.Errorf("error context = [%s #%d], want [2024-03-14 #1]", oe.Date, oe.Index)
	}
}

func TestSegmenter_RejectsMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		obs   Observation
		field string
	}{
		{"missing timestamp", Observation{App: "Chrome"}, "ts"},
		{"missing app", Observation{Timestamp: at(9, 0)}, "app"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Segment("2024-03-14", []Observation{tt.obs})
			var oe *ObservationError
			if !errors.As(err, &oe) {
				t.Fatalf("error = %v, want *ObservationError", err)
			}
			if oe.Field != tt.field {
				t.Errorf("field = %q, want %q", oe.Field, tt.field)
			}
		})
	}
}

func TestSegmenter_DuplicateTimestamps(t *testing.T) {
	s := NewSegmenter(15*time.Minute, 5*time.Minute)

	// Same instant, same app: harmless, one block.
	same := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "Docs"},
		{Timestamp: at(9, 0), App: "Chrome", Title: "Mail"},
		{Timestamp: at(9, 5), App: "Chrome", Title: "Mail"},
	}
	blocks, err := s.Segment("2024-03-14", same)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(blocks) != 1 {
		t.Errorf("Segment() returned %d blocks, want 1", len(blocks))
	}

	// Same instant across an app change would force a zero-duration block.
	changed := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "Docs"},
		{Timestamp: at(9, 0), App: "Terminal", Title: "vim"},
	}
	blocks, err = s.Segment("2024-03-14", changed)
	if err == nil {
		t.Fatal("Segment() should reject a duplicate timestamp across an app change")
	}
	if blocks != nil {
		t.Error("Segment() must not emit partial blocks for a malformed day")
	}
	var oe *ObservationError
	if !errors.As(err, &oe) {
		t.Fatalf("error type = %T, want *ObservationError", err)
	}
	if oe.Index != 1 || oe.Field != "ts" {
		t.Errorf("error context = [#%d %s], want [#1 ts]", oe.Index, oe.Field)
	}
}

func TestSegmenter_SingleObservation(t *testing.T) {
	observations := []Observation{
		{Timestamp: at(9, 0), App: "Chrome", Title: "Docs"},
	}

	s := NewSegmenter(15*time.Minute, 5*time.Minute)
	blocks, err := s.Segment("2024-03-14", observations)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Segment() returned %d blocks, want 1", len(blocks))
	}
	if blocks[0].Duration() != 5*time.Minute {
		t.Errorf("single-observation block duration = %v, want one sampling interval", blocks[0].Duration())
	}
}
