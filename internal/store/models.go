package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a named collection of transcripts. Title doubles as the
// import upsert key.
type Session struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"uniqueIndex;not null" json:"title"`
	Date      *time.Time `json:"date,omitempty"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`

	Transcripts []Transcript `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID" json:"-"`
}

// Transcript is one imported document.
type Transcript struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"index;not null" json:"sessionId"`
	FileName     string    `json:"fileName"`
	AudioURL     string    `json:"audioUrl,omitempty"`
	AudioSeconds *float64  `json:"audioSeconds,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	Segments []Segment `gorm:"constraint:OnDelete:CASCADE;foreignKey:TranscriptID" json:"-"`
}

// Segment is one line/cue of dialogue. Within a transcript segments are
// totally ordered by (start_sec, created_at, id); every read and mutation
// goes through that order.
type Segment struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	TranscriptID string    `gorm:"index;not null" json:"transcriptId"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	SpeakerName  *string   `gorm:"index" json:"speakerName"`
	StartSec     *float64  `gorm:"index" json:"startSec"`
	EndSec       *float64  `json:"endSec"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

// Speaker is a display label for assignment. It is a soft reference:
// segments store the name as free text, renames do not cascade.
type Speaker struct {
	Name   string `gorm:"primaryKey" json:"name"`
	Pinned bool   `json:"pinned"`
	Color  string `json:"color,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (t *Transcript) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Segment ids are UUIDv7: time-ordered, so the id leg of the canonical
// order's tie-break chain follows creation order instead of shuffling
// equal-timestamp rows.
func (s *Segment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = id.String()
	}
	return nil
}
