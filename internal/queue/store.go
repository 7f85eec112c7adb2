package queue

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Snapshot returns the live queue sorted ascending by position, with
// created_at breaking the rare tie left by concurrent enqueues.
func (s *Server) Snapshot(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT entry_id, catalog_id, title, artist, thumbnail_url, position, created_at
		FROM queue_entries
		ORDER BY position ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EntryID, &e.CatalogID, &e.Title, &e.Artist,
			&e.ThumbnailURL, &e.Order, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CurrentState pairs the queue snapshot with the playback position.
func (s *Server) CurrentState(ctx context.Context) (State, error) {
	entries, err := s.Snapshot(ctx)
	if err != nil {
		return State{}, err
	}
	status, err := s.PlayerStatus(ctx)
	if err != nil {
		return State{}, err
	}
	return State{Entries: entries, CurrentEntryID: status.CurrentEntryID}, nil
}

// Enqueue appends a candidate to the end of the queue. The duplicate check
// and the max-position read happen in the same transaction as the insert so
// two concurrent enqueues can neither miss each other's duplicate nor lose an
// entry; the unique index on catalog_id backs the check up at commit time.
func (s *Server) Enqueue(ctx context.Context, cand Candidate) (Entry, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback(ctx)

	var existing string
	err = tx.QueryRow(ctx, `
		SELECT entry_id FROM queue_entries WHERE catalog_id = $1
	`, cand.CatalogID).Scan(&existing)
	if err == nil {
		return Entry{}, ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, err
	}

	e := Entry{
		EntryID:      uuid.NewString(),
		CatalogID:    cand.CatalogID,
		Title:        cand.Title,
		Artist:       cand.Artist,
		ThumbnailURL: cand.ThumbnailURL,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO queue_entries (entry_id, catalog_id, title, artist, thumbnail_url, position)
		VALUES (
			$1, $2, $3, $4, $5,
			COALESCE((SELECT MAX(position)+1 FROM queue_entries), 0)
		)
		RETURNING position, created_at
	`, e.EntryID, e.CatalogID, e.Title, e.Artist, e.ThumbnailURL).Scan(&e.Order, &e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Entry{}, ErrDuplicate
		}
		return Entry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Entry{}, err
	}

	s.publishEvent(ctx, map[string]any{
		"type": "queue.track_added",
		"payload": map[string]any{
			"entry": e,
		},
	})
	s.notifyChanged(ctx)
	return e, nil
}

// Remove deletes one entry. Remaining positions keep their values; gaps are
// fine, sort order is unaffected.
func (s *Server) Remove(ctx context.Context, entryID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM queue_entries WHERE entry_id = $1
	`, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.publishEvent(ctx, map[string]any{
		"type": "queue.track_removed",
		"payload": map[string]any{
			"entryId": entryID,
		},
	})
	s.notifyChanged(ctx)
	return nil
}

// Reorder rewrites every live position to the index of its entry id in ids.
// The submitted ids must be exactly a permutation of the live set; anything
// else means the caller reordered a stale snapshot and the whole batch is
// rejected with ErrStaleQueue, leaving positions untouched.
func (s *Server) Reorder(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT entry_id FROM queue_entries FOR UPDATE
	`)
	if err != nil {
		return err
	}
	live := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		live[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(ids) != len(live) {
		return ErrStaleQueue
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !live[id] || seen[id] {
			return ErrStaleQueue
		}
		seen[id] = true
	}

	for i, id := range ids {
		if _, err := tx.Exec(ctx, `
			UPDATE queue_entries SET position = $2 WHERE entry_id = $1
		`, id, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publishEvent(ctx, map[string]any{
		"type": "queue.reordered",
		"payload": map[string]any{
			"entryIds": ids,
		},
	})
	s.notifyChanged(ctx)
	return nil
}

// Clear deletes every live entry in one statement. Clearing an empty queue
// is a no-op, not an error.
func (s *Server) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM queue_entries`); err != nil {
		return err
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "queue.cleared",
		"payload": map[string]any{},
	})
	s.notifyChanged(ctx)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Some drivers wrap the error; fall back to the SQLSTATE in the text.
	return strings.Contains(err.Error(), "23505")
}
