package types

// Cue is one parsed transcript block before persistence. Start/End are nil
// for plain-text imports.
type Cue struct {
	Text  string   `json:"text"`
	Start *float64 `json:"startSec,omitempty"`
	End   *float64 `json:"endSec,omitempty"`
}

// SegmentPatch is a partial update to a stored segment. Nil fields are left
// untouched; SpeakerName uses a double pointer so callers can distinguish
// "unset" from "clear the speaker".
type SegmentPatch struct {
	Text        *string
	SpeakerName **string
	StartSec    *float64
	EndSec      *float64
}

// CalibrationPoint pairs an expected time with the time observed in the
// transcript. Points are ephemeral: fitted, then discarded.
type CalibrationPoint struct {
	Expected float64 `json:"expected"`
	Observed float64 `json:"observed"`
}

// Position anchors an insert relative to an existing segment.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

func (p Position) Valid() bool { return p == Before || p == After }
