package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/collectionview/internal/tmux"
)

func TestWatcherEmitsImmediatelyAndOnRefresh(t *testing.T) {
	var calls atomic.Int32
	fetch := func(context.Context) (Snapshot, error) {
		n := calls.Add(1)
		return Snapshot{Sessions: tmux.SessionSnapshot{Current: string(rune('a' + n - 1))}}, nil
	}
	w := NewWatcher(fetch, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	first := receive(t, w)
	if first.Snapshot.Sessions.Current != "a" {
		t.Fatalf("unexpected first snapshot %#v", first.Snapshot)
	}
	w.Refresh()
	second := receive(t, w)
	if second.Snapshot.Sessions.Current != "b" {
		t.Fatalf("unexpected refreshed snapshot %#v", second.Snapshot)
	}
}

func TestWatcherForwardsErrors(t *testing.T) {
	boom := errors.New("boom")
	w := NewWatcher(func(context.Context) (Snapshot, error) { return Snapshot{}, boom }, time.Hour)
	defer w.Stop()

	if evt := receive(t, w); !errors.Is(evt.Err, boom) {
		t.Fatalf("expected boom, got %v", evt.Err)
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w := NewWatcher(func(context.Context) (Snapshot, error) { return Snapshot{}, nil }, time.Hour)
	receive(t, w)
	w.Stop()
	w.Wait()
	select {
	case _, ok := <-w.Events():
		if ok {
			// a buffered event may still be pending; the channel must close after it
			if _, ok := <-w.Events(); ok {
				t.Fatalf("expected events channel closed")
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel not closed")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	th.wait(ctx)
	th.wait(ctx)
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected second wait to be throttled, elapsed %v", elapsed)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if th.wait(cancelled) {
		t.Fatalf("expected wait to stop on cancelled context")
	}
}

func receive(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case evt := <-w.Events():
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}
