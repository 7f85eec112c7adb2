package queue

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// PlayerStatus reads the singleton playback position. A missing row means
// nothing has ever played; that is the empty position, not an error.
func (s *Server) PlayerStatus(ctx context.Context) (PlayerStatus, error) {
	var st PlayerStatus
	err := s.db.QueryRow(ctx, `
		SELECT current_entry_id, updated_at FROM player_status WHERE id
	`).Scan(&st.CurrentEntryID, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PlayerStatus{}, nil
	}
	if err != nil {
		return PlayerStatus{}, err
	}
	return st, nil
}

// SetCurrent overwrites the playback position unconditionally. Concurrent
// setters race and the last committed write wins; all subscribers converge
// on the next snapshot.
func (s *Server) SetCurrent(ctx context.Context, entryID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_status (id, current_entry_id, updated_at)
		VALUES (TRUE, $1, now())
		ON CONFLICT (id) DO UPDATE
		SET current_entry_id = EXCLUDED.current_entry_id, updated_at = now()
	`, entryID)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, map[string]any{
		"type": "player.updated",
		"payload": map[string]any{
			"currentEntryId": entryID,
		},
	})
	s.notifyChanged(ctx)
	return nil
}

// ClearCurrent stops playback. The record is never deleted, only emptied.
func (s *Server) ClearCurrent(ctx context.Context) error {
	return s.SetCurrent(ctx, "")
}
