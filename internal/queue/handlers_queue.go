package queue

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	st, err := s.CurrentState(r.Context())
	if err != nil {
		log.Printf("partyqueue: get queue: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if st.Entries == nil {
		st.Entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var body Candidate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.CatalogID = strings.TrimSpace(body.CatalogID)
	body.Title = strings.TrimSpace(body.Title)
	body.Artist = strings.TrimSpace(body.Artist)
	body.ThumbnailURL = strings.TrimSpace(body.ThumbnailURL)

	if body.CatalogID == "" {
		writeError(w, http.StatusBadRequest, "catalogId is required")
		return
	}
	if body.Title == "" || len(body.Title) > 300 {
		writeError(w, http.StatusBadRequest, "title must be between 1 and 300 characters")
		return
	}
	if len(body.Artist) > 200 {
		writeError(w, http.StatusBadRequest, "artist is too long")
		return
	}

	entry, err := s.Enqueue(r.Context(), body)
	if errors.Is(err, ErrDuplicate) {
		writeError(w, http.StatusConflict, "track already queued")
		return
	}
	if err != nil {
		log.Printf("partyqueue: enqueue: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry id")
		return
	}

	err := s.Remove(r.Context(), entryID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		log.Printf("partyqueue: remove: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EntryIDs []string `json:"entryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.Reorder(r.Context(), body.EntryIDs)
	if errors.Is(err, ErrStaleQueue) {
		writeError(w, http.StatusConflict, "queue changed, retry with a fresh snapshot")
		return
	}
	if err != nil {
		log.Printf("partyqueue: reorder: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entryIds": body.EntryIDs,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.Clear(r.Context()); err != nil {
		log.Printf("partyqueue: clear: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
