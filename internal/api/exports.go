package api

import (
	"net/http"
	"strings"

	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/usecase"
)

func exportOptions(r *http.Request, title string) usecase.NovelizeOptions {
	q := r.URL.Query()
	return usecase.NovelizeOptions{
		Title:              title,
		IncludeSpeakerless: q.Get("includeSpeakerless") != "false",
		FallbackLabel:      q.Get("fallback"),
	}
}

// handleNovelize renders a transcript as prose, one paragraph per speaker
// run.
func (s *Server) handleNovelize(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tr, err := s.DB.Transcript(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.novelize(w, r, tr)
}

func (s *Server) handleNovelizeLatest(w http.ResponseWriter, r *http.Request) {
	tr, err := s.DB.LatestTranscript(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.novelize(w, r, tr)
}

func (s *Server) handleNovelizeByTitle(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		s.fail(w, r, badRequest("title query parameter is required"))
		return
	}
	sess, err := s.DB.SessionByTitle(r.Context(), title)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tr, err := s.DB.LatestTranscriptForSession(r.Context(), sess.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.novelize(w, r, tr)
}

func (s *Server) novelize(w http.ResponseWriter, r *http.Request, tr *store.Transcript) {
	sess, err := s.DB.Session(r.Context(), tr.SessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.UC.Novelize(r.Context(), tr.ID, exportOptions(r, sess.Title))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, out)
}

// handleSpeakerExport returns everything one speaker says. The {name} path
// element may carry a .txt suffix.
func (s *Server) handleSpeakerExport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.PathValue("name"), ".txt")
	if name == "" {
		s.fail(w, r, badRequest("speaker name is required"))
		return
	}
	out, err := s.UC.SpeakerText(r.Context(), r.PathValue("id"), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, out)
}

func (s *Server) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := s.DB.Speakers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"speakers": speakers})
}

// handleUpsertSpeaker creates or updates a display label by name.
func (s *Server) handleUpsertSpeaker(w http.ResponseWriter, r *http.Request) {
	var body store.Speaker
	if err := decode(r, &body); err != nil {
		s.fail(w, r, badRequest("invalid json body"))
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		s.fail(w, r, badRequest("name is required"))
		return
	}
	if err := s.DB.UpsertSpeaker(r.Context(), &body); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// handleWipe clears the whole database. The body must carry the literal
// confirmation token.
func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Confirm string `json:"confirm"`
	}
	if err := decode(r, &body); err != nil || body.Confirm != "WIPE" {
		s.fail(w, r, badRequest(`confirmation required: {"confirm":"WIPE"}`))
		return
	}
	counts, err := s.UC.Wipe(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wiped": true, "counts": counts})
}
