package queue

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the queue needs; tests supply mocks.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
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

func (s *Server) publishEvent(ctx context.Context, event map[string]any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("partyqueue: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("partyqueue: publish event: %v", err)
	}
}

// notifyChanged reloads the committed state and fans it out to in-process
// watchers. Called after every committed mutation. Holding notifyMu across
// the read and the notify keeps concurrent mutations from delivering their
// snapshots out of read order; a watcher never sees an older state after a
// newer one.
func (s *Server) notifyChanged(ctx context.Context) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	st, err := s.CurrentState(ctx)
	if err != nil {
		log.Printf("partyqueue: reload state for watchers: %v", err)
		return
	}
	s.watchers.notify(st)
}
