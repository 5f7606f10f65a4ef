// Package usecase wires the domain rules to the store: importing transcripts,
// running cleanup passes, recalibrating timings and editing segments. Handlers
// in the api package call into here and never touch gorm directly.
package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forthview/scribe/internal/domain/address"
	"github.com/forthview/scribe/internal/domain/cleanup"
	"github.com/forthview/scribe/internal/domain/subtitle"
	"github.com/forthview/scribe/internal/media"
	"github.com/forthview/scribe/internal/store"
)

type Deps struct {
	DB      *store.Store
	Clean   *cleanup.Config
	Rewrite address.Rewriter

	// UploadsDir receives attached audio files; served back under /uploads.
	UploadsDir string

	Logf func(format string, args ...any)
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logf == nil {
		d.Logf = func(string, ...any) {}
	}
	return Usecase{d: d}
}

// Validation sentinels. The api layer maps these to 400 responses.
var (
	ErrTitleRequired  = errors.New("session title is required")
	ErrEmptyText      = errors.New("transcript text is empty")
	ErrSegmentText    = errors.New("segment text is required")
	ErrBadPosition    = errors.New(`position must be "before" or "after"`)
	ErrBadScale       = errors.New("scale must be a finite number > 0")
	ErrBadOffset      = errors.New("offset must be a finite number")
	ErrNoSegmentIDs   = errors.New("segment id list is empty")
	ErrNoPrevious     = errors.New("segment has no predecessor to merge into")
	ErrNothingToMerge = errors.New("segment text is empty, nothing to merge")
	ErrTargetRequired = errors.New("rewrite target is required")
)

// IsValidation reports whether err is caller error rather than a fault.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrTitleRequired, ErrEmptyText, ErrSegmentText, ErrBadPosition,
		ErrBadScale, ErrBadOffset, ErrNoSegmentIDs, ErrNoPrevious,
		ErrNothingToMerge, ErrTargetRequired,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

type ImportInput struct {
	Title    string
	Notes    string
	FileName string
	Text     string

	// Optional audio attachment, saved under UploadsDir.
	AudioName string
	Audio     []byte
}

type ImportResult struct {
	Session    *store.Session
	Transcript *store.Transcript
	Segments   int
	Format     subtitle.Format
}

// Import parses a transcript upload into ordered segments under a session,
// creating the session on first use. The transcript and its segments are
// rolled back if any later step fails, so a failed import leaves no
// half-written rows behind.
func (u Usecase) Import(ctx context.Context, in ImportInput) (ImportResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ImportResult{}, ErrTitleRequired
	}
	if strings.TrimSpace(in.Text) == "" {
		return ImportResult{}, ErrEmptyText
	}

	format := subtitle.Detect(in.Text)
	cues := subtitle.Parse(in.Text)
	if len(cues) == 0 {
		return ImportResult{}, ErrEmptyText
	}

	sess, err := u.d.DB.GetOrCreateSession(ctx, title, strings.TrimSpace(in.Notes))
	if err != nil {
		return ImportResult{}, err
	}

	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		fileName = "uploaded.txt"
	}
	tr := &store.Transcript{SessionID: sess.ID, FileName: fileName}
	if err := u.d.DB.CreateTranscript(ctx, tr); err != nil {
		return ImportResult{}, err
	}

	// Creation timestamps are spaced a millisecond apart so rows without
	// timings still sort in document order.
	base := time.Now().UTC()
	rows := make([]store.Segment, len(cues))
	for i, c := range cues {
		rows[i] = store.Segment{
			TranscriptID: tr.ID,
			Text:         c.Text,
			StartSec:     c.Start,
			EndSec:       c.End,
			CreatedAt:    base.Add(time.Duration(i) * time.Millisecond),
		}
	}
	if err := u.d.DB.CreateSegments(ctx, rows); err != nil {
		u.rollbackImport(ctx, tr.ID)
		return ImportResult{}, err
	}

	if len(in.Audio) > 0 {
		if err := u.attachAudio(ctx, tr, in.AudioName, in.Audio); err != nil {
			u.rollbackImport(ctx, tr.ID)
			return ImportResult{}, err
		}
	}

	u.d.Logf("imported %d segments (%s) into session %q", len(rows), format, title)
	return ImportResult{Session: sess, Transcript: tr, Segments: len(rows), Format: format}, nil
}

func (u Usecase) rollbackImport(ctx context.Context, transcriptID string) {
	if err := u.d.DB.DeleteTranscript(ctx, transcriptID); err != nil {
		u.d.Logf("import rollback failed for transcript %s: %v", transcriptID, err)
	}
}

// AttachAudio saves an audio file for an existing transcript and records its
// serving URL, probing the duration when the format supports it.
func (u Usecase) AttachAudio(ctx context.Context, transcriptID, name string, data []byte) (*store.Transcript, error) {
	tr, err := u.d.DB.Transcript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}
	if err := u.attachAudio(ctx, tr, name, data); err != nil {
		return nil, err
	}
	return tr, nil
}

func (u Usecase) attachAudio(ctx context.Context, tr *store.Transcript, name string, data []byte) error {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		name = "audio.bin"
	}
	dir := filepath.Join(u.d.UploadsDir, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	stored := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		return err
	}

	tr.AudioURL = "/uploads/audio/" + stored
	if media.CanProbe(name) {
		if sec, err := media.Duration(bytes.NewReader(data)); err == nil {
			tr.AudioSeconds = &sec
		} else {
			u.d.Logf("audio duration probe failed for %s: %v", name, err)
		}
	}
	return u.d.DB.SaveTranscript(ctx, tr)
}
