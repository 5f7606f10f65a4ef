// Package api exposes the transcript editor over REST. Handlers stay thin:
// decode, call the usecase or store, encode. Wire shapes follow the store
// models' json tags.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/forthview/scribe/internal/domain/calibrate"
	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/usecase"
)

// Request bodies beyond this size are rejected before parsing.
const maxBodyBytes = 64 << 20

type Server struct {
	UC usecase.Usecase
	DB *store.Store

	// UploadsDir is served read-only under /uploads/.
	UploadsDir string

	Logf func(format string, args ...any)
}

func New(uc usecase.Usecase, db *store.Store, uploadsDir string, logf func(string, ...any)) *Server {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Server{UC: uc, DB: db, UploadsDir: uploadsDir, Logf: logf}
}

// Handler builds the route table. Method-qualified patterns make the mux
// return 405 on its own for wrong verbs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/import", s.handleImport)

	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/transcripts", s.handleSessionTranscripts)
	mux.HandleFunc("GET /api/sessions/{id}/last", s.handleSessionLast)
	mux.HandleFunc("GET /api/resume", s.handleResume)

	mux.HandleFunc("GET /api/transcripts/{id}", s.handleGetTranscript)
	mux.HandleFunc("DELETE /api/transcripts/{id}", s.handleDeleteTranscript)
	mux.HandleFunc("GET /api/transcripts/{id}/segments", s.handleListSegments)
	mux.HandleFunc("GET /api/transcripts/{id}/meta", s.handleTranscriptMeta)
	mux.HandleFunc("GET /api/transcripts/{id}/speaker-names", s.handleSpeakerNames)
	mux.HandleFunc("POST /api/transcripts/{id}/cleanup", s.handleCleanup)
	mux.HandleFunc("POST /api/transcripts/cleanup/latest", s.handleCleanupLatest)
	mux.HandleFunc("POST /api/transcripts/cleanup/by-title", s.handleCleanupByTitle)
	mux.HandleFunc("POST /api/transcripts/{id}/apply-affine", s.handleApplyAffine)
	mux.HandleFunc("POST /api/transcripts/{id}/audio", s.handleAttachAudio)
	mux.HandleFunc("POST /api/calibrate/fit", s.handleCalibrateFit)

	mux.HandleFunc("POST /api/segments", s.handleAppendSegment)
	mux.HandleFunc("POST /api/segments/{anchorId}/insert", s.handleInsertSegment)
	mux.HandleFunc("PUT /api/segments/{id}", s.handleUpdateSegment)
	mux.HandleFunc("DELETE /api/segments/{id}", s.handleDeleteSegment)
	mux.HandleFunc("POST /api/segments/{id}/merge-up", s.handleMergeUp)
	mux.HandleFunc("POST /api/segments/{id}/rewrite", s.handleRewrite)
	mux.HandleFunc("POST /api/segments/bulk-delete", s.handleBulkDelete)
	mux.HandleFunc("POST /api/segments/bulk-assign", s.handleBulkAssign)

	mux.HandleFunc("GET /api/speakers", s.handleListSpeakers)
	mux.HandleFunc("POST /api/speakers", s.handleUpsertSpeaker)

	mux.HandleFunc("GET /api/export/transcript/{id}/novelize.txt", s.handleNovelize)
	mux.HandleFunc("GET /api/export/latest/novelize.txt", s.handleNovelizeLatest)
	mux.HandleFunc("GET /api/export/by-title/novelize.txt", s.handleNovelizeByTitle)
	mux.HandleFunc("GET /api/export/transcript/{id}/speaker/{name}", s.handleSpeakerExport)

	mux.HandleFunc("POST /api/admin/wipe", s.handleWipe)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.UploadsDir))))

	return s.logged(mux)
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Logf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// decode parses a JSON body into dst, rejecting unknown garbage early.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// fail maps domain errors onto status codes: validation to 400, missing
// rows to 404, the rest to 500 with a log line.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var br badRequestError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case usecase.IsValidation(err), errors.Is(err, calibrate.ErrNoPoints), errors.As(err, &br):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.Logf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func badRequest(msg string) error { return badRequestError(msg) }
