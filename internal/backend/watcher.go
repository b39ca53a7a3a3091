// Package backend polls tmux for the session and window listing shown by
// the browser.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/collectionview/internal/tmux"
)

// Snapshot is one consistent read of the server.
type Snapshot struct {
	Sessions tmux.SessionSnapshot
	Windows  tmux.WindowSnapshot
}

// Event carries a fresh snapshot or the error that prevented one.
type Event struct {
	Snapshot Snapshot
	Err      error
}

// Fetcher reads a snapshot.
type Fetcher func(ctx context.Context) (Snapshot, error)

// TmuxFetcher reads sessions and windows from the server at socketPath.
func TmuxFetcher(socketPath string) Fetcher {
	return func(context.Context) (Snapshot, error) {
		sessions, err := tmux.FetchSessions(socketPath)
		if err != nil {
			return Snapshot{}, err
		}
		windows, err := tmux.FetchWindows(socketPath)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Sessions: sessions, Windows: windows}, nil
	}
}

const minFetchGap = 250 * time.Millisecond

// Watcher polls at a fixed interval and publishes events. The first fetch
// happens immediately.
type Watcher struct {
	fetch    Fetcher
	interval time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	refresh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts polling with fetch every interval.
func NewWatcher(fetch Fetcher, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fetch:    fetch,
		interval: interval,
		throttle: newThrottle(minFetchGap),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		refresh:  make(chan struct{}, 1),
	}
	w.wg.Add(1)
	go w.poll()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w
}

// Events returns the event stream. It is closed after Stop once the
// poller has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh asks for a fetch ahead of the next tick. Requests made while
// one is pending are merged.
func (w *Watcher) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. The poller exits after its current fetch.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	emit := func() bool {
		if !w.throttle.wait(w.ctx) {
			return false
		}
		snap, err := w.fetch(w.ctx)
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- Event{Snapshot: snap, Err: err}:
			return true
		}
	}

	if !emit() {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		case <-w.refresh:
		}
		if !emit() {
			return
		}
	}
}
