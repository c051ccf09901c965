package dispatch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/homebot/internal/command"
	"github.com/nerrad567/homebot/internal/executor"
	"github.com/nerrad567/homebot/internal/history"
	"github.com/nerrad567/homebot/internal/ratelimit"
)

// fakeReplier records outbound messages and signals each delivery.
type fakeReplier struct {
	mu      sync.Mutex
	replies []string
	callers []string
	ch      chan struct{}
}

func newFakeReplier() *fakeReplier {
	return &fakeReplier{ch: make(chan struct{}, 64)}
}

func (r *fakeReplier) Reply(callerID, text string) error {
	r.mu.Lock()
	r.callers = append(r.callers, callerID)
	r.replies = append(r.replies, text)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *fakeReplier) waitN(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for reply %d of %d", i+1, n)
		}
	}
}

func (r *fakeReplier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replies...)
}

// fakeRecorder captures telemetry writes.
type fakeRecorder struct {
	mu     sync.Mutex
	writes []string
}

func (r *fakeRecorder) WriteCommandMetric(action, category, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, action+"/"+category+"/"+status)
}

type fixture struct {
	dispatcher *Dispatcher
	replier    *fakeReplier
	recorder   *fakeRecorder
	history    *history.Log
	queue      *executor.Queue
}

func newFixture(t *testing.T, maxRequests int) *fixture {
	t.Helper()

	registry := command.NewRegistry()
	actions := []command.Action{
		{Keywords: []string{"lights on"}, Handler: "ok", Description: "turn on the lights", Category: "lighting"},
		{Keywords: []string{"water the plants"}, Handler: "fail", Description: "run the watering pump", Category: "garden"},
		{Keywords: []string{"coffee"}, Handler: "ok", Description: "start the coffee machine", Category: "kitchen"},
	}
	for _, a := range actions {
		if err := registry.Register(a); err != nil {
			t.Fatalf("registering action: %v", err)
		}
	}

	handlers := executor.NewRegistry()
	handlers.Register("ok", executor.HandlerFunc(func(context.Context, string) executor.Result {
		return executor.Result{OK: true, Message: "lights are on"}
	}))
	handlers.Register("fail", executor.HandlerFunc(func(context.Context, string) executor.Result {
		return executor.Result{Message: "pump is jammed"}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	queue := executor.NewQueue(handlers, 16, time.Second)
	queue.Start(ctx)

	replier := newFakeReplier()
	recorder := &fakeRecorder{}
	hist := history.New(100)

	d := New(Options{
		Registry: registry,
		Limiter:  ratelimit.New(maxRequests, time.Minute),
		Queue:    queue,
		History:  hist,
		Allowed:  []string{"alice", "bob"},
		Replier:  replier,
		Recorder: recorder,
	})
	t.Cleanup(d.Stop)

	return &fixture{dispatcher: d, replier: replier, recorder: recorder, history: hist, queue: queue}
}

func TestHandleMessage_UnauthorizedCallerLeavesNoHistory(t *testing.T) {
	f := newFixture(t, 10)

	f.dispatcher.HandleMessage("mallory", "lights on")
	f.replier.waitN(t, 1)

	replies := f.replier.all()
	if replies[0] != replyUnauthorized {
		t.Errorf("reply = %q, want %q", replies[0], replyUnauthorized)
	}
	if got := f.history.Len(); got != 0 {
		t.Errorf("history.Len() = %d, want 0 for unauthorized caller", got)
	}
}

func TestHandleMessage_RateLimitedCallerLeavesNoHistory(t *testing.T) {
	f := newFixture(t, 1)

	f.dispatcher.HandleMessage("alice", "lights on")
	// ack + outcome for the first command
	f.replier.waitN(t, 2)

	f.dispatcher.HandleMessage("alice", "lights on")
	f.replier.waitN(t, 1)

	replies := f.replier.all()
	if last := replies[len(replies)-1]; last != replyRateLimited {
		t.Errorf("reply = %q, want %q", last, replyRateLimited)
	}
	// Only the first command's outcome is recorded.
	if got := f.history.Len(); got != 1 {
		t.Errorf("history.Len() = %d, want 1", got)
	}
}

func TestHandleMessage_UnknownCommandRecordsNotFoundEachTime(t *testing.T) {
	f := newFixture(t, 10)

	f.dispatcher.HandleMessage("alice", "open the pod bay doors")
	f.dispatcher.HandleMessage("alice", "open the pod bay doors")
	f.replier.waitN(t, 2)

	replies := f.replier.all()
	for i, r := range replies {
		if r != replyNotRecognized {
			t.Errorf("reply[%d] = %q, want %q", i, r, replyNotRecognized)
		}
	}

	entries := f.history.Recent(10)
	if len(entries) != 2 {
		t.Fatalf("history has %d entries, want 2 (repeat misses are each recorded)", len(entries))
	}
	for i, e := range entries {
		if e.Status != history.StatusNotFound {
			t.Errorf("entry[%d].Status = %q, want %q", i, e.Status, history.StatusNotFound)
		}
		if e.CommandText != "open the pod bay doors" {
			t.Errorf("entry[%d].CommandText = %q", i, e.CommandText)
		}
	}
}

func TestHandleMessage_SuccessFlow(t *testing.T) {
	f := newFixture(t, 10)

	f.dispatcher.HandleMessage("alice", "lights on")
	f.replier.waitN(t, 2)

	replies := f.replier.all()
	if !strings.Contains(replies[0], "turn on the lights") || !strings.Contains(replies[0], "lighting") {
		t.Errorf("acknowledgement = %q, want category and description", replies[0])
	}
	if replies[1] != "lights are on" {
		t.Errorf("outcome reply = %q, want handler message verbatim", replies[1])
	}

	entries := f.history.Recent(1)
	if len(entries) != 1 {
		t.Fatal("no history entry recorded")
	}
	e := entries[0]
	if e.Status != history.StatusSuccess {
		t.Errorf("entry.Status = %q, want %q", e.Status, history.StatusSuccess)
	}
	if e.Detail != "lights are on" {
		t.Errorf("entry.Detail = %q, want handler message verbatim", e.Detail)
	}
	if e.CallerID != "alice" {
		t.Errorf("entry.CallerID = %q, want alice", e.CallerID)
	}

	f.recorder.mu.Lock()
	defer f.recorder.mu.Unlock()
	if len(f.recorder.writes) != 1 || f.recorder.writes[0] != "lights on/lighting/SUCCESS" {
		t.Errorf("telemetry writes = %v, want one SUCCESS metric", f.recorder.writes)
	}
}

func TestHandleMessage_FailureFlow(t *testing.T) {
	f := newFixture(t, 10)

	f.dispatcher.HandleMessage("bob", "water the plants")
	f.replier.waitN(t, 2)

	replies := f.replier.all()
	if !strings.Contains(replies[1], "pump is jammed") {
		t.Errorf("outcome reply = %q, want handler failure text", replies[1])
	}

	entries := f.history.Recent(1)
	if entries[0].Status != history.StatusError {
		t.Errorf("entry.Status = %q, want %q", entries[0].Status, history.StatusError)
	}
	if entries[0].Detail != "pump is jammed" {
		t.Errorf("entry.Detail = %q, want handler message verbatim", entries[0].Detail)
	}
}

func TestHandleMessage_QueueFullRepliesBusy(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(command.Action{
		Keywords: []string{"block"}, Handler: "block", Description: "block", Category: "test",
	})

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	handlers := executor.NewRegistry()
	handlers.Register("block", executor.HandlerFunc(func(context.Context, string) executor.Result {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return executor.Result{OK: true, Message: "done"}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer close(release)

	queue := executor.NewQueue(handlers, 1, time.Minute)
	queue.Start(ctx)

	replier := newFakeReplier()
	hist := history.New(100)
	d := New(Options{
		Registry: registry,
		Limiter:  ratelimit.New(100, time.Minute),
		Queue:    queue,
		History:  hist,
		Allowed:  []string{"alice"},
		Replier:  replier,
	})
	defer d.Stop()

	// First command occupies the worker, second fills the buffer.
	d.HandleMessage("alice", "block")
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never picked up the first job")
	}
	d.HandleMessage("alice", "block")

	// Third command must be rejected with a busy reply. Four replies
	// so far: three acknowledgements and the rejection.
	d.HandleMessage("alice", "block")
	f := replier
	f.waitN(t, 4)

	replies := f.all()
	if last := replies[len(replies)-1]; last != replyBusy {
		t.Errorf("reply = %q, want %q", last, replyBusy)
	}

	entries := hist.Recent(10)
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1 (the rejection)", len(entries))
	}
	if entries[0].Status != history.StatusError {
		t.Errorf("entry.Status = %q, want %q", entries[0].Status, history.StatusError)
	}
}

func TestHandleMessage_ScheduleRepliesWithoutImmediateExecution(t *testing.T) {
	f := newFixture(t, 10)

	f.dispatcher.HandleMessage("alice", "coffee 10")
	f.replier.waitN(t, 1)

	replies := f.replier.all()
	if !strings.Contains(replies[0], "scheduled in 10 minutes") {
		t.Errorf("reply = %q, want schedule confirmation", replies[0])
	}
	if got := f.queue.Depth(); got != 0 {
		t.Errorf("queue.Depth() = %d, want 0 before the timer fires", got)
	}
	if got := f.history.Len(); got != 0 {
		t.Errorf("history.Len() = %d, want 0 before the timer fires", got)
	}
}

func TestHandleMessage_ScheduleWithUnknownCommandFallsThrough(t *testing.T) {
	f := newFixture(t, 10)

	// "fnord" is no command, so "fnord 10" is ordinary unmatched text.
	f.dispatcher.HandleMessage("alice", "fnord 10")
	f.replier.waitN(t, 1)

	replies := f.replier.all()
	if replies[0] != replyNotRecognized {
		t.Errorf("reply = %q, want %q", replies[0], replyNotRecognized)
	}
	if got := f.history.Len(); got != 1 {
		t.Errorf("history.Len() = %d, want 1 NOT_FOUND entry", got)
	}
}

func TestBuiltinHelp_GroupsByCategory(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(command.Action{Keywords: []string{"lights on"}, Handler: "h", Description: "turn on the lights", Category: "lighting"})
	registry.Register(command.Action{Keywords: []string{"coffee"}, Handler: "h", Description: "start the coffee machine", Category: "kitchen"})

	res := HelpHandler(registry)(context.Background(), "help")
	if !res.OK {
		t.Fatal("help handler reported failure")
	}
	for _, want := range []string{"lighting:", "kitchen:", "lights on", "start the coffee machine"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("help output missing %q:\n%s", want, res.Message)
		}
	}
}

func TestBuiltinStatus_ReportsQueueAndHistory(t *testing.T) {
	handlers := executor.NewRegistry()
	queue := executor.NewQueue(handlers, 4, time.Second)
	hist := history.New(10)
	hist.Append(history.Entry{Timestamp: time.Now(), CommandText: "coffee", Status: history.StatusSuccess})

	res := StatusHandler(queue, hist, time.Now().Add(-time.Hour))(context.Background(), "status")
	if !res.OK {
		t.Fatal("status handler reported failure")
	}
	for _, want := range []string{"uptime:", "queued commands: 0", "commands recorded: 1", "coffee"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("status output missing %q:\n%s", want, res.Message)
		}
	}
}
