package advance

import (
	"context"
	"log"

	"partyqueue/internal/queue"
)

// Positioner is the slice of the queue server the runner writes through.
type Positioner interface {
	SetCurrent(ctx context.Context, entryID string) error
	ClearCurrent(ctx context.Context) error
}

// Runner drives automatic playback advancement. It consumes committed states
// and "track ended" signals, runs the pure decision functions and applies the
// outcome. A failed write is logged and dropped: the runner keeps its last
// consistent view and reconciles on the next snapshot.
type Runner struct {
	states   <-chan queue.State
	finished <-chan string
	pos      Positioner

	last queue.State
}

func NewRunner(states <-chan queue.State, finished <-chan string, pos Positioner) *Runner {
	return &Runner{
		states:   states,
		finished: finished,
		pos:      pos,
	}
}

// Run blocks until ctx is cancelled or the state stream closes.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case st, ok := <-r.states:
			if !ok {
				return
			}
			d := OnQueueChanged(r.last.Entries, st.Entries, st.CurrentEntryID)
			r.apply(ctx, d)
			r.last = st

		case entryID := <-r.finished:
			d := OnTrackFinished(r.last.Entries, r.last.CurrentEntryID, entryID)
			r.apply(ctx, d)
		}
	}
}

func (r *Runner) apply(ctx context.Context, d Decision) {
	var err error
	switch d.Action {
	case NoChange:
		return
	case SetPosition:
		err = r.pos.SetCurrent(ctx, d.EntryID)
	case ClearPosition:
		err = r.pos.ClearCurrent(ctx)
	}
	if err != nil {
		log.Printf("partyqueue: advance write failed: %v", err)
	}
}
