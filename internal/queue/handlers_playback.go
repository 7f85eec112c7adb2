package queue

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"
)

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	st, err := s.PlayerStatus(r.Context())
	if err != nil {
		log.Printf("partyqueue: get player: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleSetPlayer is the explicit "play track T" action. It overrides
// whatever the advance logic last decided; last write wins.
func (s *Server) handleSetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		EntryID string `json:"entryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.EntryID == "" {
		writeError(w, http.StatusBadRequest, "entryId is required")
		return
	}

	// Playing a track only makes sense while it is in the queue.
	var exists string
	err := s.db.QueryRow(ctx, `
		SELECT entry_id FROM queue_entries WHERE entry_id = $1
	`, body.EntryID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		log.Printf("partyqueue: set player lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if err := s.SetCurrent(ctx, body.EntryID); err != nil {
		log.Printf("partyqueue: set player: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"currentEntryId": body.EntryID,
	})
}

func (s *Server) handleClearPlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.ClearCurrent(r.Context()); err != nil {
		log.Printf("partyqueue: clear player: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTrackFinished accepts the player widget's "ended" signal. The signal
// carries the entry it was playing so the advance runner can drop stale ones
// from a just-replaced player instance.
func (s *Server) handleTrackFinished(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EntryID string `json:"entryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.EntryID == "" {
		writeError(w, http.StatusBadRequest, "entryId is required")
		return
	}

	select {
	case s.finished <- body.EntryID:
	default:
		// The runner is behind; dropping is safe, the next snapshot reconciles.
		log.Printf("partyqueue: finished signal dropped for %s", body.EntryID)
	}

	w.WriteHeader(http.StatusAccepted)
}
