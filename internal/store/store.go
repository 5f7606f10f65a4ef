// Package store persists sessions, transcripts, segments and speakers in
// SQLite through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound wraps gorm's record-not-found for callers that should not
// import gorm.
var ErrNotFound = errors.New("not found")

// canonicalOrder is the total, stable segment order within a transcript.
const canonicalOrder = "start_sec ASC, created_at ASC, id ASC"

// segmentBatchSize bounds the rows per INSERT during bulk import.
const segmentBatchSize = 2000

type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the database at path. ":memory:" is accepted
// for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Session{}, &Transcript{}, &Segment{}, &Speaker{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- sessions ---

// GetOrCreateSession upserts a session by title.
func (s *Store) GetOrCreateSession(ctx context.Context, title, notes string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("title = ?", title).First(&sess).Error
	if err == nil {
		return &sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find session: %w", err)
	}
	sess = Session{Title: title, Notes: notes}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// SessionByTitle returns the session with the given title.
func (s *Store) SessionByTitle(ctx context.Context, title string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).Where("title = ?", title).First(&sess).Error; err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

// Session returns one session by id.
func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

// Sessions lists sessions that still have at least one transcript, newest
// first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	var out []Session
	err := s.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM transcripts WHERE transcripts.session_id = sessions.id)").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CreateSession creates a session outright (non-upsert path).
func (s *Store) CreateSession(ctx context.Context, sess *Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

// DeleteSession removes a session with its transcripts and segments.
// Returns the number of transcripts removed.
func (s *Store) DeleteSession(ctx context.Context, id string) (int64, error) {
	var transcripts []Transcript
	if err := s.db.WithContext(ctx).Where("session_id = ?", id).Find(&transcripts).Error; err != nil {
		return 0, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range transcripts {
			if err := tx.Where("transcript_id = ?", t.ID).Delete(&Segment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("session_id = ?", id).Delete(&Transcript{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Session{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return int64(len(transcripts)), err
}

// --- transcripts ---

func (s *Store) CreateTranscript(ctx context.Context, t *Transcript) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) Transcript(ctx context.Context, id string) (*Transcript, error) {
	var t Transcript
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) SaveTranscript(ctx context.Context, t *Transcript) error {
	return s.db.WithContext(ctx).Save(t).Error
}

// LatestTranscript returns the most recently created transcript across all
// sessions.
func (s *Store) LatestTranscript(ctx context.Context) (*Transcript, error) {
	var t Transcript
	if err := s.db.WithContext(ctx).Order("created_at DESC").First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// LatestTranscriptForSession returns the newest transcript of one session.
func (s *Store) LatestTranscriptForSession(ctx context.Context, sessionID string) (*Transcript, error) {
	var t Transcript
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// TranscriptsForSession lists a session's transcripts, newest first.
func (s *Store) TranscriptsForSession(ctx context.Context, sessionID string) ([]Transcript, error) {
	var out []Transcript
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// DeleteTranscript removes a transcript and its segments.
func (s *Store) DeleteTranscript(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transcript_id = ?", id).Delete(&Segment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Transcript{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- segments ---

// CreateSegments bulk-inserts rows in bounded batches. Order of the slice
// is preserved; callers space CreatedAt for a deterministic tie-break.
func (s *Store) CreateSegments(ctx context.Context, rows []Segment) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(rows, segmentBatchSize).Error
}

func (s *Store) CreateSegment(ctx context.Context, seg *Segment) error {
	return s.db.WithContext(ctx).Create(seg).Error
}

func (s *Store) Segment(ctx context.Context, id string) (*Segment, error) {
	var seg Segment
	if err := s.db.WithContext(ctx).First(&seg, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &seg, nil
}

func (s *Store) SaveSegment(ctx context.Context, seg *Segment) error {
	return s.db.WithContext(ctx).Save(seg).Error
}

// ListSegments returns one window over the canonical order plus the total
// filtered count.
func (s *Store) ListSegments(ctx context.Context, transcriptID string, limit, offset int, speaker, query string) ([]Segment, int64, error) {
	q := s.db.WithContext(ctx).Model(&Segment{}).Where("transcript_id = ?", transcriptID)
	if speaker != "" {
		q = q.Where("speaker_name = ?", speaker)
	}
	if query != "" {
		q = q.Where("text LIKE ? ESCAPE '\\'", "%"+escapeLike(query)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Segment
	err := q.Order(canonicalOrder).Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// SegmentsForTranscript returns all segments in canonical order.
func (s *Store) SegmentsForTranscript(ctx context.Context, transcriptID string) ([]Segment, error) {
	var out []Segment
	err := s.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Order(canonicalOrder).
		Find(&out).Error
	return out, err
}

// DeleteSegment removes one segment; a missing id is a not-found error.
// SegmentIDs returns just the ids of a transcript's segments in canonical
// order, for position lookups over filtered pages.
func (s *Store) SegmentIDs(ctx context.Context, transcriptID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Segment{}).
		Where("transcript_id = ?", transcriptID).
		Order(canonicalOrder).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Store) DeleteSegment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Segment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSegments removes a batch by id. Missing ids are tolerated; the
// count of rows actually removed is returned.
func (s *Store) DeleteSegments(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Delete(&Segment{}, "id IN ?", ids)
	return res.RowsAffected, res.Error
}

// AssignSpeaker sets (or clears, with nil) the speaker across a batch.
func (s *Store) AssignSpeaker(ctx context.Context, ids []string, speaker *string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&Segment{}).
		Where("id IN ?", ids).
		Update("speaker_name", speaker)
	return res.RowsAffected, res.Error
}

// UpdateSegmentTimes rewrites start/end for a batch of segments in one
// transaction. Values are per-row, so this cannot be a single UPDATE.
func (s *Store) UpdateSegmentTimes(ctx context.Context, batch []Segment) error {
	if len(batch) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seg := range batch {
			err := tx.Model(&Segment{}).Where("id = ?", seg.ID).
				Updates(map[string]any{"start_sec": seg.StartSec, "end_sec": seg.EndSec}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SpeakerNames returns the distinct non-empty speaker labels used in a
// transcript, sorted.
func (s *Store) SpeakerNames(ctx context.Context, transcriptID string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&Segment{}).
		Where("transcript_id = ? AND speaker_name IS NOT NULL AND TRIM(speaker_name) <> ''", transcriptID).
		Distinct().
		Order("speaker_name ASC").
		Pluck("speaker_name", &names).Error
	return names, err
}

// TimeBounds returns the minimum start and maximum end across a
// transcript's segments; nil when no timed segments exist.
func (s *Store) TimeBounds(ctx context.Context, transcriptID string) (minStart, maxEnd *float64, err error) {
	row := s.db.WithContext(ctx).Model(&Segment{}).
		Where("transcript_id = ?", transcriptID).
		Select("MIN(start_sec), MAX(end_sec)").
		Row()
	if err := row.Scan(&minStart, &maxEnd); err != nil {
		return nil, nil, err
	}
	return minStart, maxEnd, nil
}

// --- speakers ---

// UpsertSpeaker creates or updates a speaker by name.
func (s *Store) UpsertSpeaker(ctx context.Context, sp *Speaker) error {
	return s.db.WithContext(ctx).Save(sp).Error
}

func (s *Store) Speakers(ctx context.Context) ([]Speaker, error) {
	var out []Speaker
	err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// --- admin ---

// WipeCounts reports what Wipe removed.
type WipeCounts struct {
	Segments    int64 `json:"segments"`
	Transcripts int64 `json:"transcripts"`
	Sessions    int64 `json:"sessions"`
	Speakers    int64 `json:"speakers"`
}

// Wipe deletes all sessions, transcripts, segments and speakers, in
// dependency order.
func (s *Store) Wipe(ctx context.Context) (WipeCounts, error) {
	var counts WipeCounts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&Segment{})
		if res.Error != nil {
			return res.Error
		}
		counts.Segments = res.RowsAffected
		res = tx.Where("1 = 1").Delete(&Transcript{})
		if res.Error != nil {
			return res.Error
		}
		counts.Transcripts = res.RowsAffected
		res = tx.Where("1 = 1").Delete(&Session{})
		if res.Error != nil {
			return res.Error
		}
		counts.Sessions = res.RowsAffected
		res = tx.Where("1 = 1").Delete(&Speaker{})
		if res.Error != nil {
			return res.Error
		}
		counts.Speakers = res.RowsAffected
		return nil
	})
	return counts, err
}

// escapeLike neutralizes LIKE wildcards in user search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
