package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/types"
	"github.com/forthview/scribe/internal/usecase"
)

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	tr, err := s.DB.Transcript(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleDeleteTranscript(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteTranscript(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleListSegments pages through a transcript's segments in canonical
// order, with optional speaker and substring filters.
func (s *Server) handleListSegments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.DB.Transcript(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 200)
	offset := intParam(q.Get("offset"), 0)
	if limit < 1 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	speaker, search := q.Get("speaker"), q.Get("q")
	items, total, err := s.DB.ListSegments(r.Context(), id, limit, offset, speaker, search)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Positions are 1-based and always count within the unfiltered
	// canonical order, so a search hit still shows its real row number.
	page := make([]segmentItem, len(items))
	if speaker != "" || search != "" {
		ids, err := s.DB.SegmentIDs(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		pos := make(map[string]int, len(ids))
		for i, segID := range ids {
			pos[segID] = i + 1
		}
		for i := range items {
			page[i] = segmentItem{Segment: items[i], AbsolutePosition: pos[items[i].ID]}
		}
	} else {
		for i := range items {
			page[i] = segmentItem{Segment: items[i], AbsolutePosition: offset + i + 1}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"segments": page,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// segmentItem decorates a segment with its position in the transcript's
// canonical order, so paged clients can show row numbers.
type segmentItem struct {
	store.Segment
	AbsolutePosition int `json:"absolutePosition"`
}

// handleTranscriptMeta reports the timing envelope of a transcript.
func (s *Server) handleTranscriptMeta(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tr, err := s.DB.Transcript(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	minStart, maxEnd, err := s.DB.TimeBounds(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transcript": tr,
		"minStart":   minStart,
		"maxEnd":     maxEnd,
	})
}

func (s *Server) handleSpeakerNames(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.DB.Transcript(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	names, err := s.DB.SpeakerNames(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"speakerNames": names})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	res, err := s.UC.CleanupTranscript(r.Context(), r.PathValue("id"))
	s.writeCleanup(w, r, res, err)
}

func (s *Server) handleCleanupLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.UC.CleanupLatest(r.Context())
	s.writeCleanup(w, r, res, err)
}

func (s *Server) handleCleanupByTitle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := decode(r, &body); err != nil || strings.TrimSpace(body.Title) == "" {
		s.fail(w, r, badRequest("title is required"))
		return
	}
	res, err := s.UC.CleanupSession(r.Context(), strings.TrimSpace(body.Title))
	s.writeCleanup(w, r, res, err)
}

func (s *Server) writeCleanup(w http.ResponseWriter, r *http.Request, res usecase.CleanupResult, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transcriptId": res.TranscriptID,
		"updated":      res.Updated,
		"deleted":      res.Deleted,
	})
}

// handleCalibrateFit fits new = a*old + b from reference points without
// touching any rows.
func (s *Server) handleCalibrateFit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Points []types.CalibrationPoint `json:"points"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	fit, err := s.UC.FitCalibration(body.Points)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := map[string]any{"a": fit.Scale, "b": fit.Offset}
	if fit.Warning != "" {
		out["warning"] = fit.Warning
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApplyAffine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		A *float64 `json:"a"`
		B *float64 `json:"b"`
	}
	if err := decode(r, &body); err != nil || body.A == nil || body.B == nil {
		s.fail(w, r, badRequest("a and b are required numbers"))
		return
	}
	n, err := s.UC.ApplyAffine(r.Context(), r.PathValue("id"), *body.A, *body.B)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
