package crawler

import (
	"testing"
	"time"
)

func TestTaskQueuePushPop(t *testing.T) {
	t.Parallel()

	t.Run("pops in FIFO order", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/a")
		q.Push("http://example.com/b")

		first, ok := q.Pop()
		if !ok || first != "http://example.com/a" {
			t.Errorf("expected first pop to return /a, got %q (ok=%v)", first, ok)
		}
		second, ok := q.Pop()
		if !ok || second != "http://example.com/b" {
			t.Errorf("expected second pop to return /b, got %q (ok=%v)", second, ok)
		}
	})

	t.Run("empty queue with nothing in flight drains immediately", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		if _, ok := q.Pop(); ok {
			t.Error("expected Pop on a fresh queue to report drained")
		}
	})

	t.Run("drains after the last task is done", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/only")

		if _, ok := q.Pop(); !ok {
			t.Fatal("expected Pop to return the queued URL")
		}
		q.Done()

		if _, ok := q.Pop(); ok {
			t.Error("expected Pop to report drained after Done")
		}
	})

	t.Run("len counts queued URLs", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/a")
		q.Push("http://example.com/b")
		if q.Len() != 2 {
			t.Errorf("expected length 2, got %d", q.Len())
		}
		q.Pop() //nolint:errcheck
		if q.Len() != 1 {
			t.Errorf("expected length 1, got %d", q.Len())
		}
	})
}

func TestTaskQueueBlocking(t *testing.T) {
	t.Parallel()

	t.Run("pop waits while a task is in flight", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/a")
		if _, ok := q.Pop(); !ok {
			t.Fatal("expected Pop to return the queued URL")
		}

		// A second Pop must block: the in-flight task may push more work.
		got := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			got <- ok
		}()

		select {
		case <-got:
			t.Fatal("Pop returned while a task was still in flight")
		case <-time.After(50 * time.Millisecond):
		}

		// The in-flight task pushes a URL before finishing; the blocked
		// Pop should receive it.
		q.Push("http://example.com/b")
		q.Done()

		select {
		case ok := <-got:
			if !ok {
				t.Error("expected blocked Pop to receive the pushed URL")
			}
		case <-time.After(time.Second):
			t.Fatal("Pop did not wake after a Push")
		}
		q.Done()
	})

	t.Run("pop releases with false once the crawl drains", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/a")
		if _, ok := q.Pop(); !ok {
			t.Fatal("expected Pop to return the queued URL")
		}

		got := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			got <- ok
		}()

		// Finishing the last in-flight task with nothing queued ends the crawl.
		q.Done()

		select {
		case ok := <-got:
			if ok {
				t.Error("expected blocked Pop to report drained")
			}
		case <-time.After(time.Second):
			t.Fatal("Pop did not release after drain")
		}
	})
}

func TestTaskQueueClose(t *testing.T) {
	t.Parallel()

	t.Run("close releases blocked pops", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Push("http://example.com/a")
		q.Pop() //nolint:errcheck

		got := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			got <- ok
		}()

		q.Close()

		select {
		case ok := <-got:
			if ok {
				t.Error("expected Pop after Close to report stopped")
			}
		case <-time.After(time.Second):
			t.Fatal("Pop did not release after Close")
		}
	})

	t.Run("push after close is dropped", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Close()
		q.Push("http://example.com/a")

		if q.Len() != 0 {
			t.Errorf("expected push after close to be dropped, queue has %d items", q.Len())
		}
		if _, ok := q.Pop(); ok {
			t.Error("expected Pop on closed queue to report stopped")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		q := newTaskQueue()
		q.Close()
		q.Close()

		if _, ok := q.Pop(); ok {
			t.Error("expected Pop on closed queue to report stopped")
		}
	})
}
