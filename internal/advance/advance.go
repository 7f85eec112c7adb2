// Package advance decides what the party queue should play next. The
// decision logic is pure: it maps a queue snapshot, the current position and
// a trigger to a decision, without touching the store. The Runner applies
// decisions and feeds failures back through the next snapshot.
package advance

import "partyqueue/internal/queue"

// Action says what the runner should do with the playback position.
type Action int

const (
	// NoChange leaves the position alone.
	NoChange Action = iota
	// SetPosition points the position at Decision.EntryID.
	SetPosition
	// ClearPosition stops playback.
	ClearPosition
)

// Decision is the outcome of one trigger.
type Decision struct {
	Action  Action
	EntryID string
}

func noChange() Decision        { return Decision{Action: NoChange} }
func clearPos() Decision        { return Decision{Action: ClearPosition} }
func setPos(id string) Decision { return Decision{Action: SetPosition, EntryID: id} }

// OnQueueChanged reacts to a fresh snapshot. prev is the previously observed
// snapshot, needed to locate the last known order of an entry that has just
// been removed.
//
//   - Empty queue: clear the position (unless it is already empty).
//   - Nothing playing and the queue is non-empty: autoplay the first entry.
//   - The current entry is still queued: keep playing, even across reorders.
//   - The current entry vanished: jump to the next in line by its last known
//     order, or stop if it was the last one.
func OnQueueChanged(prev, next []queue.Entry, currentID string) Decision {
	if len(next) == 0 {
		if currentID == "" {
			return noChange()
		}
		return clearPos()
	}

	if currentID == "" {
		return setPos(next[0].EntryID)
	}

	for _, e := range next {
		if e.EntryID == currentID {
			return noChange()
		}
	}

	// Stale position: the playing entry was removed. Advance to the entry
	// with the smallest order greater than its last known order.
	lastOrder, known := orderOf(prev, currentID)
	if !known {
		// Never saw the entry; fall back to the head of the queue.
		return setPos(next[0].EntryID)
	}

	bestID := ""
	bestOrder := 0
	for _, e := range next {
		if e.Order <= lastOrder {
			continue
		}
		if bestID == "" || e.Order < bestOrder {
			bestID = e.EntryID
			bestOrder = e.Order
		}
	}
	if bestID == "" {
		return clearPos()
	}
	return setPos(bestID)
}

// OnTrackFinished reacts to the player widget's "ended" signal.
//
//   - A signal for anything but the current entry is stale and ignored; it
//     must not override a more recent manual selection.
//   - Otherwise play the entry right after the current one in the snapshot's
//     order, or stop at the end of the queue (no looping).
func OnTrackFinished(entries []queue.Entry, currentID, finishedID string) Decision {
	if finishedID == "" || finishedID != currentID {
		return noChange()
	}

	for i, e := range entries {
		if e.EntryID == currentID {
			if i+1 < len(entries) {
				return setPos(entries[i+1].EntryID)
			}
			return clearPos()
		}
	}

	// The finished entry is already gone from the queue; the snapshot path
	// has taken (or will take) care of advancing.
	return noChange()
}

func orderOf(entries []queue.Entry, entryID string) (int, bool) {
	for _, e := range entries {
		if e.EntryID == entryID {
			return e.Order, true
		}
	}
	return 0, false
}
