package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventualAwaitReturnsValue(t *testing.T) {
	ev := NewEventual(func() (int, error) { return 42, nil })
	v, err := ev.Await(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Await() = %d, %v; want 42, nil", v, err)
	}
}

func TestEventualAwaitPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	ev := NewEventual(func() (int, error) { return 0, boom })
	_, err := ev.Await(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Await() err = %v, want %v", err, boom)
	}
}

func TestEventualAwaitCancelledByContext(t *testing.T) {
	ev := NewEventual(func() (int, error) {
		time.Sleep(time.Hour)
		return 1, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ev.Await(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Await() err = %v, want context.Canceled", err)
	}
}

func TestCancelTokenAbort(t *testing.T) {
	tok := newCancelToken(context.Background())
	if tok.Aborted() {
		t.Fatalf("fresh token must not be aborted")
	}
	tok.Abort()
	if !tok.Aborted() {
		t.Fatalf("token must be aborted after Abort()")
	}
	select {
	case <-tok.Done():
	default:
		t.Fatalf("Done() channel must be closed after Abort()")
	}
}
