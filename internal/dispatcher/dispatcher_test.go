package dispatcher

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(level, msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, keysAndValues))
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues...) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.log("INFO", msg, keysAndValues...) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues...) }

func (l *testLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}
	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	called := false
	d.Register("seek", func(e Event) (any, error) {
		called = true
		return "cursor: 5", nil
	})

	result, err := d.Dispatch(Event{Command: "seek", Args: []string{"5"}})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if result != "cursor: 5" {
		t.Errorf("expected 'cursor: 5', got %v", result)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	if _, err := d.Dispatch(Event{Command: "bogus"}); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Register("play", func(e Event) (any, error) { return nil, nil })

	if !d.HasHandler("play") {
		t.Error("expected handler for play")
	}
	if d.HasHandler("stop") {
		t.Error("did not expect handler for stop")
	}
	if len(d.Commands()) != 1 {
		t.Errorf("expected 1 command, got %d", len(d.Commands()))
	}
}

func TestDispatcher_BufferedHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	d.Register("save", func(e Event) (any, error) {
		processed.Add(1)
		return nil, nil
	}, Buffered(10))

	for i := 0; i < 5; i++ {
		result, err := d.Dispatch(Event{Command: "save"})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "queued" {
			t.Errorf("expected 'queued', got %v", result)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for processed.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if processed.Load() != 5 {
		t.Errorf("expected 5 processed events, got %d", processed.Load())
	}
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d, _ := newTestDispatcher(t)

	release := make(chan struct{})
	d.Register("save", func(e Event) (any, error) {
		<-release
		return nil, nil
	}, Buffered(1))

	// first fills the worker, second fills the queue
	d.Dispatch(Event{Command: "save"})
	d.Dispatch(Event{Command: "save"})

	var dropped bool
	for i := 0; i < 10; i++ {
		if _, err := d.Dispatch(Event{Command: "save"}); err != nil {
			dropped = true
			break
		}
	}
	close(release)

	if !dropped {
		t.Error("expected a dispatch to be dropped once the queue filled")
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("status", func(e Event) (any, error) {
		return "idle", nil
	}, Logged())

	if _, err := d.Dispatch(Event{Command: "status"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if logger.count() < 2 {
		t.Errorf("expected handling and completion logs, got %d messages", logger.count())
	}

	d.Register("fail", func(e Event) (any, error) {
		return nil, fmt.Errorf("boom")
	}, Logged())

	before := logger.count()
	if _, err := d.Dispatch(Event{Command: "fail"}); err == nil {
		t.Error("expected handler error to propagate")
	}
	if logger.count() <= before {
		t.Error("expected error to be logged")
	}
}
