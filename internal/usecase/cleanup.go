package usecase

import (
	"context"

	"github.com/forthview/scribe/internal/domain/cleanup"
	"github.com/forthview/scribe/internal/store"
)

type CleanupResult struct {
	TranscriptID string
	Updated      int
	Deleted      int
}

// CleanupTranscript runs the normalization pass over one transcript: strips
// leftover timing cues into the segment's own fields, removes filler words,
// fixes misspelled names in text and speaker labels, and deletes segments
// that end up with no content. Re-running it is a no-op.
func (u Usecase) CleanupTranscript(ctx context.Context, transcriptID string) (CleanupResult, error) {
	if _, err := u.d.DB.Transcript(ctx, transcriptID); err != nil {
		return CleanupResult{}, err
	}
	return u.cleanupSegments(ctx, transcriptID)
}

// CleanupLatest targets the most recently imported transcript overall.
func (u Usecase) CleanupLatest(ctx context.Context) (CleanupResult, error) {
	tr, err := u.d.DB.LatestTranscript(ctx)
	if err != nil {
		return CleanupResult{}, err
	}
	return u.cleanupSegments(ctx, tr.ID)
}

// CleanupSession targets the latest transcript of the session with the given
// title.
func (u Usecase) CleanupSession(ctx context.Context, title string) (CleanupResult, error) {
	sess, err := u.d.DB.SessionByTitle(ctx, title)
	if err != nil {
		return CleanupResult{}, err
	}
	tr, err := u.d.DB.LatestTranscriptForSession(ctx, sess.ID)
	if err != nil {
		return CleanupResult{}, err
	}
	return u.cleanupSegments(ctx, tr.ID)
}

func (u Usecase) cleanupSegments(ctx context.Context, transcriptID string) (CleanupResult, error) {
	segs, err := u.d.DB.SegmentsForTranscript(ctx, transcriptID)
	if err != nil {
		return CleanupResult{}, err
	}

	res := CleanupResult{TranscriptID: transcriptID}
	for i := range segs {
		seg := &segs[i]

		if cleanup.IsHeader(seg.Text) {
			if err := u.d.DB.DeleteSegment(ctx, seg.ID); err != nil {
				return res, err
			}
			res.Deleted++
			continue
		}

		text, start, end := cleanup.StripTiming(seg.Text)
		text = u.d.Clean.FixNames(u.d.Clean.StripFillers(text))
		if cleanup.Empty(text) {
			if err := u.d.DB.DeleteSegment(ctx, seg.ID); err != nil {
				return res, err
			}
			res.Deleted++
			continue
		}

		changed := text != seg.Text
		seg.Text = text
		// Timings recovered from the text only fill fields, never erase them.
		if start != nil && !sameTime(seg.StartSec, start) {
			seg.StartSec = start
			changed = true
		}
		if end != nil && !sameTime(seg.EndSec, end) {
			seg.EndSec = end
			changed = true
		}
		if seg.SpeakerName != nil {
			if fixed := u.d.Clean.NormalizeSpeaker(*seg.SpeakerName); fixed != *seg.SpeakerName {
				seg.SpeakerName = &fixed
				changed = true
			}
		}

		if !changed {
			continue
		}
		if err := u.d.DB.SaveSegment(ctx, seg); err != nil {
			return res, err
		}
		res.Updated++
	}

	u.d.Logf("cleanup of %s: %d updated, %d deleted", transcriptID, res.Updated, res.Deleted)
	return res, nil
}

func sameTime(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Wipe drops every session, transcript, segment and speaker. The api layer
// gates it behind an explicit confirmation token.
func (u Usecase) Wipe(ctx context.Context) (store.WipeCounts, error) {
	counts, err := u.d.DB.Wipe(ctx)
	if err != nil {
		return counts, err
	}
	u.d.Logf("wiped database: %+v", counts)
	return counts, nil
}
