package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// SnapshotFunc loads the current shared state so a freshly connected client
// starts from a full snapshot instead of waiting for the next mutation.
type SnapshotFunc func(ctx context.Context) (any, error)

type Server struct {
	hub           *Hub
	rdb           *redis.Client
	snapshot      SnapshotFunc
	allowedOrigin string
}

func NewServer(hub *Hub, rdb *redis.Client, snapshot SnapshotFunc, allowedOrigin string) *Server {
	return &Server{
		hub:           hub,
		rdb:           rdb,
		snapshot:      snapshot,
		allowedOrigin: allowedOrigin,
	}
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if s.allowedOrigin == "" || s.allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == s.allowedOrigin
		},
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleWS)

	return r
}

// RunRedisSubscriber pumps the "broadcast" channel into the hub until ctx is
// cancelled. go-redis resubscribes transparently after transient disconnects.
func (s *Server) RunRedisSubscriber(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, "broadcast")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.hub.broadcast <- []byte(msg.Payload)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("partyqueue: ws upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register <- client

	welcome := map[string]any{
		"type": "welcome",
		"now":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.Marshal(welcome); err == nil {
		client.send <- b
	}

	// Full snapshot up front; after this the client only needs the live feed.
	if s.snapshot != nil {
		if st, err := s.snapshot(r.Context()); err == nil {
			msg := map[string]any{
				"type":    "state.snapshot",
				"payload": st,
			}
			if b, err := json.Marshal(msg); err == nil {
				client.send <- b
			}
		} else {
			log.Printf("partyqueue: ws initial snapshot: %v", err)
		}
	}

	go client.writePump()
	go client.readPump()
}
