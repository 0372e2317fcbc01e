package atom

import (
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_RelaysEachValueWhenRead(t *testing.T) {
	source := make(chan []byte)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for _, want := range []string{"one", "two", "three"} {
		source <- []byte(want)
		select {
		case v := <-out:
			if string(v) != want {
				t.Errorf("expected %s, got %s", want, string(v))
			}
		case <-ctx.Done():
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}

func TestChannelWatcher_KeepsNewestUnreadValue(t *testing.T) {
	source := make(chan []byte, 3)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for _, v := range []string{"one", "two", "three"} {
		source <- []byte(v)
	}
	eventually(t, func() bool { return len(source) == 0 })

	select {
	case v := <-out:
		if string(v) != "three" {
			t.Errorf("expected three, got %s", string(v))
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for value")
	}

	select {
	case v := <-out:
		t.Errorf("expected superseded values to be dropped, got %s", string(v))
	case <-time.After(20 * time.Millisecond):
	}
}

func TestChannelWatcher_DeliversLastValueAfterSourceCloses(t *testing.T) {
	source := make(chan []byte, 2)
	source <- []byte("first")
	source <- []byte("last")
	close(source)

	out, err := NewChannelWatcher(source).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	eventually(t, func() bool { return len(source) == 0 })

	select {
	case v, ok := <-out:
		if !ok {
			t.Fatal("expected last value before close")
		}
		if string(v) != "last" {
			t.Errorf("expected last, got %s", string(v))
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for value")
	}
	expectClosed(t, out)
}

func TestChannelWatcher_Closes(t *testing.T) {
	t.Run("on source close", func(t *testing.T) {
		source := make(chan []byte)
		close(source)

		out, err := NewChannelWatcher(source).Watch(context.Background())
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
		expectClosed(t, out)
	})

	t.Run("on context cancel", func(t *testing.T) {
		source := make(chan []byte)
		ctx, cancel := context.WithCancel(context.Background())

		out, err := NewChannelWatcher(source).Watch(ctx)
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
		cancel()
		expectClosed(t, out)
	})

	t.Run("on context cancel while blocked on send", func(t *testing.T) {
		source := make(chan []byte, 1)
		source <- []byte("unread")
		ctx, cancel := context.WithCancel(context.Background())

		out, err := NewChannelWatcher(source).Watch(ctx)
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}

		// Let the relay goroutine pick up the value and block on out.
		time.Sleep(20 * time.Millisecond)
		cancel()
		time.Sleep(20 * time.Millisecond)
		expectClosed(t, out)
	})
}

func TestSyncChannelWatcher_ReturnsSource(t *testing.T) {
	source := make(chan []byte, 1)
	source <- []byte("direct")

	out, err := NewSyncChannelWatcher(source).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case v := <-out:
		if string(v) != "direct" {
			t.Errorf("expected 'direct', got %q", v)
		}
	default:
		t.Error("expected value to be readable without a relay goroutine")
	}
}

// expectClosed drains ch and fails unless it closes promptly.
func expectClosed(t *testing.T, ch <-chan []byte) {
	t.Helper()
	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("timeout waiting for channel close")
		}
	}
}
