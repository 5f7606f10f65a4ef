package api

import (
	"net/http"
	"strings"
)

// handleListSessions returns sessions that still have transcripts, newest
// first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.DB.Sessions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
		Notes string `json:"notes"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		s.fail(w, r, badRequest("title is required"))
		return
	}
	sess, err := s.DB.GetOrCreateSession(r.Context(), strings.TrimSpace(body.Title), body.Notes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// handleDeleteSession cascades to transcripts and segments and reports how
// many transcripts went with it.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	n, err := s.DB.DeleteSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "transcriptsDeleted": n})
}

func (s *Server) handleSessionTranscripts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.DB.Session(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	trs, err := s.DB.TranscriptsForSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transcripts": trs})
}

// handleSessionLast returns the session's most recent transcript, the one
// the editor reopens on.
func (s *Server) handleSessionLast(w http.ResponseWriter, r *http.Request) {
	tr, err := s.DB.LatestTranscriptForSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// handleResume returns the newest transcript across all sessions.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	tr, err := s.DB.LatestTranscript(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}
