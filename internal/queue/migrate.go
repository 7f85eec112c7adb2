package queue

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS queue_entries (
          entry_id      uuid PRIMARY KEY,
          catalog_id    TEXT NOT NULL,
          title         TEXT NOT NULL,
          artist        TEXT NOT NULL DEFAULT '',
          thumbnail_url TEXT NOT NULL DEFAULT '',
          position      INT NOT NULL,
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	if err != nil {
		log.Printf("partyqueue: migrate queue_entries: %v", err)
		return err
	}

	// Live entries never share a catalog id; removed entries leave the table,
	// so a plain unique index is enough to back up the enqueue pre-check.
	if _, err := pool.Exec(ctx, `
      CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_entries_catalog
      ON queue_entries(catalog_id)
    `); err != nil {
		return err
	}

	// Positions may have gaps after removals; the index is for sort order,
	// not uniqueness (reorder rewrites the whole set in one transaction).
	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_queue_entries_position
      ON queue_entries(position, created_at)
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS player_status (
          id               BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
          current_entry_id TEXT NOT NULL DEFAULT '',
          updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("partyqueue: migrate player_status: %v", err)
		return err
	}

	return nil
}
