package queue

import (
	"errors"
	"time"
)

// Entry is one track queued by a guest. Display metadata is copied from the
// catalog at enqueue time and never re-fetched.
type Entry struct {
	EntryID      string    `json:"entryId"`
	CatalogID    string    `json:"catalogId"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PlayerStatus is the single shared playback position record.
// CurrentEntryID is empty when nothing is playing.
type PlayerStatus struct {
	CurrentEntryID string    `json:"currentEntryId"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// State is what subscribers observe: the committed queue snapshot sorted by
// (order, createdAt) together with the current playback position.
type State struct {
	Entries        []Entry `json:"entries"`
	CurrentEntryID string  `json:"currentEntryId"`
}

// Candidate carries the catalog metadata needed to enqueue a track.
type Candidate struct {
	CatalogID    string `json:"catalogId"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

var (
	// ErrDuplicate: the catalog id is already queued by a live entry.
	ErrDuplicate = errors.New("track already queued")
	// ErrNotFound: the referenced entry is not in the live queue.
	ErrNotFound = errors.New("entry not found")
	// ErrStaleQueue: a reorder was submitted against an outdated snapshot;
	// the ids are not a permutation of the live set. Retry with a fresh one.
	ErrStaleQueue = errors.New("queue changed, reorder rejected")
)
