package usecase

import (
	"context"
	"strings"

	"github.com/forthview/scribe/internal/domain/cleanup"
	"github.com/forthview/scribe/internal/store"
)

type NovelizeOptions struct {
	// Title becomes a markdown heading when set.
	Title string

	// IncludeSpeakerless keeps segments with no speaker; otherwise they are
	// dropped from the output.
	IncludeSpeakerless bool

	// FallbackLabel labels speakerless segments, e.g. "Narrator". Empty
	// means print their text bare.
	FallbackLabel string
}

// Novelize renders a transcript as prose: "Speaker: text" paragraphs, with
// runs of consecutive segments by the same speaker merged into one
// paragraph. Speakerless segments never merge with each other.
func (u Usecase) Novelize(ctx context.Context, transcriptID string, opts NovelizeOptions) (string, error) {
	segs, err := u.segmentsOf(ctx, transcriptID)
	if err != nil {
		return "", err
	}

	var blocks []string
	var name *string
	var texts []string
	flush := func() {
		if len(texts) == 0 {
			return
		}
		text := strings.Join(texts, " ")
		switch {
		case name != nil:
			blocks = append(blocks, *name+": "+text)
		case opts.FallbackLabel != "":
			blocks = append(blocks, opts.FallbackLabel+": "+text)
		default:
			blocks = append(blocks, text)
		}
		texts = texts[:0]
	}

	for i := range segs {
		seg := &segs[i]
		if seg.SpeakerName == nil && !opts.IncludeSpeakerless {
			continue
		}
		if !sameName(name, seg.SpeakerName) || seg.SpeakerName == nil {
			flush()
			name = seg.SpeakerName
		}
		texts = append(texts, cleanup.Collapse(seg.Text))
	}
	flush()

	var sb strings.Builder
	if t := strings.TrimSpace(opts.Title); t != "" {
		sb.WriteString("# " + t + "\n\n")
	}
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n")
	return sb.String(), nil
}

// SpeakerText gathers everything one speaker says in a transcript, in
// transcript order, one paragraph per segment.
func (u Usecase) SpeakerText(ctx context.Context, transcriptID, speaker string) (string, error) {
	segs, err := u.segmentsOf(ctx, transcriptID)
	if err != nil {
		return "", err
	}
	var parts []string
	for i := range segs {
		if segs[i].SpeakerName != nil && *segs[i].SpeakerName == speaker {
			parts = append(parts, cleanup.Collapse(segs[i].Text))
		}
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func (u Usecase) segmentsOf(ctx context.Context, transcriptID string) ([]store.Segment, error) {
	if _, err := u.d.DB.Transcript(ctx, transcriptID); err != nil {
		return nil, err
	}
	return u.d.DB.SegmentsForTranscript(ctx, transcriptID)
}

func sameName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
