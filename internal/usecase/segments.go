package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/forthview/scribe/internal/domain/cleanup"
	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/types"
)

type InsertInput struct {
	AnchorID    string
	Where       types.Position
	Text        string
	SpeakerName *string
	StartSec    *float64
	EndSec      *float64
}

// InsertSegment places a new segment next to an anchor. Rows without timings
// sort by creation timestamp, so the new row borrows the anchor's stamp:
// a millisecond earlier for "before", equal for "after" (the UUIDv7 id then
// breaks the tie in insertion order).
func (u Usecase) InsertSegment(ctx context.Context, in InsertInput) (*store.Segment, error) {
	if !in.Where.Valid() {
		return nil, ErrBadPosition
	}
	text := cleanup.Collapse(in.Text)
	if text == "" {
		return nil, ErrSegmentText
	}
	anchor, err := u.d.DB.Segment(ctx, in.AnchorID)
	if err != nil {
		return nil, err
	}

	createdAt := anchor.CreatedAt
	if in.Where == types.Before {
		createdAt = createdAt.Add(-time.Millisecond)
	}
	seg := &store.Segment{
		TranscriptID: anchor.TranscriptID,
		Text:         text,
		SpeakerName:  in.SpeakerName,
		StartSec:     in.StartSec,
		EndSec:       in.EndSec,
		CreatedAt:    createdAt,
	}
	if err := u.d.DB.CreateSegment(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// AppendSegment adds a segment to the end of a transcript's creation order.
func (u Usecase) AppendSegment(ctx context.Context, transcriptID, text string, speaker *string, start, end *float64) (*store.Segment, error) {
	text = cleanup.Collapse(text)
	if text == "" {
		return nil, ErrSegmentText
	}
	if _, err := u.d.DB.Transcript(ctx, transcriptID); err != nil {
		return nil, err
	}
	seg := &store.Segment{
		TranscriptID: transcriptID,
		Text:         text,
		SpeakerName:  speaker,
		StartSec:     start,
		EndSec:       end,
	}
	if err := u.d.DB.CreateSegment(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// MergeUp folds a segment's text into its predecessor in transcript order
// and deletes it. The predecessor keeps its own start, and takes the later
// of the two end times.
func (u Usecase) MergeUp(ctx context.Context, id string) (*store.Segment, error) {
	seg, err := u.d.DB.Segment(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(seg.Text) == "" {
		return nil, ErrNothingToMerge
	}

	all, err := u.d.DB.SegmentsForTranscript(ctx, seg.TranscriptID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range all {
		if all[i].ID == seg.ID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil, ErrNoPrevious
	}

	prev := all[idx-1]
	prev.Text = cleanup.Collapse(prev.Text + " " + seg.Text)
	if seg.EndSec != nil && (prev.EndSec == nil || *seg.EndSec > *prev.EndSec) {
		prev.EndSec = seg.EndSec
	}
	if err := u.d.DB.SaveSegment(ctx, &prev); err != nil {
		return nil, err
	}
	if err := u.d.DB.DeleteSegment(ctx, seg.ID); err != nil {
		return nil, err
	}
	return &prev, nil
}

type UpdateResult struct {
	Deleted bool
	Segment *store.Segment
}

// UpdateSegment applies a partial edit. Setting text to whitespace deletes
// the segment instead, matching how the editor treats blanked-out rows.
func (u Usecase) UpdateSegment(ctx context.Context, id string, patch types.SegmentPatch) (UpdateResult, error) {
	seg, err := u.d.DB.Segment(ctx, id)
	if err != nil {
		return UpdateResult{}, err
	}

	if patch.Text != nil {
		text := cleanup.Collapse(*patch.Text)
		if text == "" {
			if err := u.d.DB.DeleteSegment(ctx, id); err != nil {
				return UpdateResult{}, err
			}
			return UpdateResult{Deleted: true}, nil
		}
		seg.Text = text
	}
	if patch.SpeakerName != nil {
		seg.SpeakerName = *patch.SpeakerName
	}
	if patch.StartSec != nil {
		seg.StartSec = patch.StartSec
	}
	if patch.EndSec != nil {
		seg.EndSec = patch.EndSec
	}
	if err := u.d.DB.SaveSegment(ctx, seg); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Segment: seg}, nil
}

func (u Usecase) DeleteSegment(ctx context.Context, id string) error {
	return u.d.DB.DeleteSegment(ctx, id)
}

// BulkDelete removes the listed segments, tolerating ids that no longer
// exist, and reports how many rows actually went away.
func (u Usecase) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSegmentIDs
	}
	return u.d.DB.DeleteSegments(ctx, ids)
}

// BulkAssign sets (or with nil clears) the speaker on the listed segments.
func (u Usecase) BulkAssign(ctx context.Context, ids []string, speaker *string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSegmentIDs
	}
	if speaker != nil {
		name := strings.TrimSpace(*speaker)
		if name == "" {
			speaker = nil
		} else {
			speaker = &name
		}
	}
	return u.d.DB.AssignSpeaker(ctx, ids, speaker)
}

type RewriteResult struct {
	Segment *store.Segment
	Changed bool
}

// RewriteSegment redirects who a segment's text speaks to, persisting only
// when the rules actually changed something.
func (u Usecase) RewriteSegment(ctx context.Context, id, target string) (RewriteResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return RewriteResult{}, ErrTargetRequired
	}
	seg, err := u.d.DB.Segment(ctx, id)
	if err != nil {
		return RewriteResult{}, err
	}
	after := u.d.Rewrite.Rewrite(seg.Text, target)
	if after == seg.Text {
		return RewriteResult{Segment: seg}, nil
	}
	seg.Text = after
	if err := u.d.DB.SaveSegment(ctx, seg); err != nil {
		return RewriteResult{}, err
	}
	return RewriteResult{Segment: seg, Changed: true}, nil
}
