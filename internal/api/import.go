package api

import (
	"io"
	"net/http"

	"github.com/forthview/scribe/internal/usecase"
)

// handleImport accepts a multipart form: title, optional notes, transcript
// text either inline ("text") or as a file upload ("file"), and an optional
// "audio" attachment.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		s.fail(w, r, badRequest("multipart form expected"))
		return
	}

	in := usecase.ImportInput{
		Title: r.FormValue("title"),
		Notes: r.FormValue("notes"),
		Text:  r.FormValue("text"),
	}

	if f, hdr, err := r.FormFile("file"); err == nil {
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		in.Text = string(data)
		in.FileName = hdr.Filename
	}

	if f, hdr, err := r.FormFile("audio"); err == nil {
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		in.Audio = data
		in.AudioName = hdr.Filename
	}

	res, err := s.UC.Import(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId":    res.Session.ID,
		"transcriptId": res.Transcript.ID,
		"segments":     res.Segments,
		"format":       res.Format.String(),
	})
}

// handleAttachAudio adds or replaces the audio file of a transcript.
func (s *Server) handleAttachAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		s.fail(w, r, badRequest("multipart form expected"))
		return
	}
	f, hdr, err := r.FormFile("audio")
	if err != nil {
		s.fail(w, r, badRequest("audio file is required"))
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	tr, err := s.UC.AttachAudio(r.Context(), r.PathValue("id"), hdr.Filename, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}
