package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "working")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() != true {
		// Stop cancels the internal context.
		t.Error("spinner context should be cancelled after Stop")
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "working")
	s.Start()

	cancel()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should report true after context cancellation")
	}
}

func TestSpinnerNotCancelledWhileRunning(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "working")
	s.Start()
	defer s.Stop()

	// Commands check Cancelled before stopping to tell interruption apart
	// from ordinary failures; it must stay false while the parent is live.
	if s.Cancelled() {
		t.Error("Cancelled() should be false while the parent context is live")
	}
}

func TestSpinnerDoubleStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "working")
	s.Start()
	s.Stop()
	s.Stop() // must not panic
}
