package share

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TracksFunc loads the current queue in display order.
type TracksFunc func(ctx context.Context) ([]Track, error)

type Server struct {
	tracks TracksFunc
}

func NewServer(tracks TracksFunc) *Server {
	return &Server{tracks: tracks}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleExport)
	r.Get("/{token}", s.handleDecode)

	return r
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.tracks(r.Context())
	if err != nil {
		log.Printf("partyqueue: share export: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	token, err := Encode(tracks)
	if err != nil {
		log.Printf("partyqueue: share encode: %v", err)
		writeError(w, http.StatusInternalServerError, "encode error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"tracks": len(tracks),
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	tracks, err := Decode(token)
	if errors.Is(err, ErrInvalidToken) {
		writeError(w, http.StatusBadRequest, "this playlist link seems to be broken or invalid")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "decode error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tracks": tracks,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
