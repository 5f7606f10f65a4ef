package api

import (
	"net/http"
	"strings"

	"github.com/forthview/scribe/internal/types"
	"github.com/forthview/scribe/internal/usecase"
)

type segmentBody struct {
	TranscriptID string   `json:"transcriptId"`
	Text         string   `json:"text"`
	SpeakerName  *string  `json:"speakerName"`
	StartSec     *float64 `json:"startSec"`
	EndSec       *float64 `json:"endSec"`
}

// handleAppendSegment adds a segment to the end of a transcript.
func (s *Server) handleAppendSegment(w http.ResponseWriter, r *http.Request) {
	var body segmentBody
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	if strings.TrimSpace(body.TranscriptID) == "" {
		s.fail(w, r, badRequest("transcriptId is required"))
		return
	}
	seg, err := s.UC.AppendSegment(r.Context(), body.TranscriptID, body.Text, body.SpeakerName, body.StartSec, body.EndSec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, seg)
}

// handleInsertSegment places a segment before or after an anchor.
func (s *Server) handleInsertSegment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		segmentBody
		Where string `json:"where"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	seg, err := s.UC.InsertSegment(r.Context(), usecase.InsertInput{
		AnchorID:    r.PathValue("anchorId"),
		Where:       types.Position(body.Where),
		Text:        body.Text,
		SpeakerName: body.SpeakerName,
		StartSec:    body.StartSec,
		EndSec:      body.EndSec,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, seg)
}

// handleUpdateSegment applies a partial edit. Fields absent from the body
// are left alone; "speakerName": null clears the speaker; blank text
// deletes the row and reports it.
func (s *Server) handleUpdateSegment(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decode(r, &raw); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}

	var patch types.SegmentPatch
	if v, ok := raw["text"]; ok {
		text, ok := v.(string)
		if !ok {
			s.fail(w, r, badRequest("text must be a string"))
			return
		}
		patch.Text = &text
	}
	if v, ok := raw["speakerName"]; ok {
		var name *string
		switch t := v.(type) {
		case nil:
		case string:
			name = &t
		default:
			s.fail(w, r, badRequest("speakerName must be a string or null"))
			return
		}
		patch.SpeakerName = &name
	}
	var err error
	if patch.StartSec, err = floatField(raw, "startSec"); err != nil {
		s.fail(w, r, err)
		return
	}
	if patch.EndSec, err = floatField(raw, "endSec"); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.UC.UpdateSegment(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res.Deleted {
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}
	writeJSON(w, http.StatusOK, res.Segment)
}

func floatField(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, badRequest(key + " must be a number")
	}
	return &f, nil
}

func (s *Server) handleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	if err := s.UC.DeleteSegment(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleMergeUp(w http.ResponseWriter, r *http.Request) {
	merged, err := s.UC.MergeUp(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target string `json:"target"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	res, err := s.UC.RewriteSegment(r.Context(), r.PathValue("id"), body.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"changed": res.Changed,
		"text":    res.Segment.Text,
	})
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SegmentIDs []string `json:"segmentIds"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	n, err := s.UC.BulkDelete(r.Context(), body.SegmentIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (s *Server) handleBulkAssign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SegmentIDs  []string `json:"segmentIds"`
		SpeakerName *string  `json:"speakerName"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	n, err := s.UC.BulkAssign(r.Context(), body.SegmentIDs, body.SpeakerName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}
