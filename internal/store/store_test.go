package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTranscript(t *testing.T, s *Store) *Transcript {
	t.Helper()
	ctx := context.Background()
	sess, err := s.GetOrCreateSession(ctx, "Session One", "")
	if err != nil {
		t.Fatal(err)
	}
	tr := &Transcript{SessionID: sess.ID, FileName: "session.vtt"}
	if err := s.CreateTranscript(ctx, tr); err != nil {
		t.Fatal(err)
	}
	return tr
}

func f(v float64) *float64 { return &v }
func str(v string) *string { return &v }

func TestGetOrCreateSession_UpsertsByTitle(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first, err := s.GetOrCreateSession(ctx, "Curse of Strahd", "notes")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.GetOrCreateSession(ctx, "Curse of Strahd", "other notes")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same session, got %s and %s", first.ID, second.ID)
	}
}

func TestListSegments_CanonicalOrderAndFilters(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	base := time.Now().Truncate(time.Millisecond)
	rows := []Segment{
		{TranscriptID: tr.ID, Text: "third", StartSec: f(30), CreatedAt: base},
		{TranscriptID: tr.ID, Text: "first", StartSec: f(10), CreatedAt: base.Add(time.Millisecond)},
		{TranscriptID: tr.ID, Text: "second", StartSec: f(20), SpeakerName: str("Dain"), CreatedAt: base.Add(2 * time.Millisecond)},
	}
	if err := s.CreateSegments(ctx, rows); err != nil {
		t.Fatal(err)
	}

	items, total, err := s.ListSegments(ctx, tr.ID, 100, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	if items[0].Text != "first" || items[1].Text != "second" || items[2].Text != "third" {
		t.Fatalf("wrong order: %s %s %s", items[0].Text, items[1].Text, items[2].Text)
	}

	// Speaker filter narrows items and total.
	items, total, err = s.ListSegments(ctx, tr.ID, 100, 0, "Dain", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].Text != "second" {
		t.Fatalf("speaker filter: total=%d items=%+v", total, items)
	}

	// Substring filter.
	items, total, err = s.ListSegments(ctx, tr.ID, 100, 0, "", "ir")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("text filter total=%d", total)
	}

	// Pagination window.
	items, total, err = s.ListSegments(ctx, tr.ID, 1, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 1 || items[0].Text != "second" {
		t.Fatalf("pagination: total=%d items=%+v", total, items)
	}
}

func TestListSegments_CreationOrderFallback(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	base := time.Now().Truncate(time.Millisecond)
	rows := []Segment{
		{TranscriptID: tr.ID, Text: "a", CreatedAt: base},
		{TranscriptID: tr.ID, Text: "b", CreatedAt: base.Add(time.Millisecond)},
		{TranscriptID: tr.ID, Text: "c", CreatedAt: base.Add(2 * time.Millisecond)},
	}
	if err := s.CreateSegments(ctx, rows); err != nil {
		t.Fatal(err)
	}

	items, _, err := s.ListSegments(ctx, tr.ID, 100, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Text != "a" || items[1].Text != "b" || items[2].Text != "c" {
		t.Fatalf("wrong untimed order: %s %s %s", items[0].Text, items[1].Text, items[2].Text)
	}
}

func TestDeleteSegment_NotFound(t *testing.T) {
	s := openTest(t)
	if err := s.DeleteSegment(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSegments_ToleratesMissingIDs(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	seg := &Segment{TranscriptID: tr.ID, Text: "hello"}
	if err := s.CreateSegment(ctx, seg); err != nil {
		t.Fatal(err)
	}
	count, err := s.DeleteSegments(ctx, []string{seg.ID, "missing-1", "missing-2"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestAssignSpeaker_Batch(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	a := &Segment{TranscriptID: tr.ID, Text: "a"}
	b := &Segment{TranscriptID: tr.ID, Text: "b"}
	for _, seg := range []*Segment{a, b} {
		if err := s.CreateSegment(ctx, seg); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.AssignSpeaker(ctx, []string{a.ID, b.ID}, str("Lift")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Segment(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SpeakerName == nil || *got.SpeakerName != "Lift" {
		t.Fatalf("speaker = %v", got.SpeakerName)
	}

	// nil clears.
	if _, err := s.AssignSpeaker(ctx, []string{a.ID}, nil); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Segment(ctx, a.ID)
	if got.SpeakerName != nil {
		t.Fatalf("speaker not cleared: %v", *got.SpeakerName)
	}
}

func TestDeleteTranscript_Cascades(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)
	if err := s.CreateSegment(ctx, &Segment{TranscriptID: tr.ID, Text: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTranscript(ctx, tr.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transcript(ctx, tr.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("transcript survived delete: %v", err)
	}
	segs, err := s.SegmentsForTranscript(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 0 {
		t.Fatalf("segments survived delete: %d", len(segs))
	}
}

func TestSpeakerNames_DistinctSorted(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	rows := []Segment{
		{TranscriptID: tr.ID, Text: "1", SpeakerName: str("Lift")},
		{TranscriptID: tr.ID, Text: "2", SpeakerName: str("Dain")},
		{TranscriptID: tr.ID, Text: "3", SpeakerName: str("Dain")},
		{TranscriptID: tr.ID, Text: "4"},
	}
	if err := s.CreateSegments(ctx, rows); err != nil {
		t.Fatal(err)
	}
	names, err := s.SpeakerNames(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Dain" || names[1] != "Lift" {
		t.Fatalf("names = %v", names)
	}
}

func TestTimeBounds(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)

	rows := []Segment{
		{TranscriptID: tr.ID, Text: "1", StartSec: f(5), EndSec: f(9)},
		{TranscriptID: tr.ID, Text: "2", StartSec: f(1), EndSec: f(4)},
	}
	if err := s.CreateSegments(ctx, rows); err != nil {
		t.Fatal(err)
	}
	minStart, maxEnd, err := s.TimeBounds(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if minStart == nil || *minStart != 1 || maxEnd == nil || *maxEnd != 9 {
		t.Fatalf("bounds = %v %v", minStart, maxEnd)
	}
}

func TestWipe(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tr := seedTranscript(t, s)
	if err := s.CreateSegment(ctx, &Segment{TranscriptID: tr.ID, Text: "x"}); err != nil {
		t.Fatal(err)
	}

	counts, err := s.Wipe(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Segments != 1 || counts.Transcripts != 1 || counts.Sessions != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}
