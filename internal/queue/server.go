package queue

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Server owns the shared queue and the playback position. Every committed
// mutation is published on the Redis broadcast channel and pushed to
// in-process watchers.
type Server struct {
	db       DB
	rdb      *redis.Client
	watchers *watchHub
	finished chan string

	// notifyMu serializes the post-commit state read with the watcher
	// notify so snapshots are delivered in the order they were read.
	notifyMu sync.Mutex
}

func NewServer(db DB, rdb *redis.Client) *Server {
	return &Server{
		db:       db,
		rdb:      rdb,
		watchers: newWatchHub(),
		finished: make(chan string, 16),
	}
}

// Finished exposes the stream of "track ended" signals reported by the host
// player widget, consumed by the advance runner.
func (s *Server) Finished() <-chan string {
	return s.finished
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/queue", s.handleGetQueue)
	r.Post("/queue/tracks", s.handleEnqueue)
	r.Delete("/queue/tracks/{entryId}", s.handleRemove)
	r.Put("/queue/order", s.handleReorder)
	r.Delete("/queue", s.handleClear)

	r.Get("/player", s.handleGetPlayer)
	r.Put("/player", s.handleSetPlayer)
	r.Delete("/player", s.handleClearPlayer)
	r.Post("/player/finished", s.handleTrackFinished)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "partyqueue",
	})
}
