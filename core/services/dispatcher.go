package services

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"appscan-traffic-recorder/api"
	"appscan-traffic-recorder/internal/logpane"
)

// shutdownTimeout bounds how long Close waits for in-flight calls at exit.
const shutdownTimeout = 2 * time.Second

// EventKind tells which of the three result shapes an Event carries.
type EventKind int

const (
	EventLog EventKind = iota
	EventVerified
	EventResponse
)

// Event is the single result of one unit of background work.
type Event struct {
	Kind     EventKind
	Level    logpane.Level
	Message  string
	Verified bool
	Response *api.Response
}

// LogEvent reports a message for the log pane.
func LogEvent(level logpane.Level, format string, args ...interface{}) Event {
	return Event{Kind: EventLog, Level: level, Message: fmt.Sprintf(format, args...)}
}

// VerifiedEvent reports the outcome of a server check; detail explains a failure.
func VerifiedEvent(ok bool, detail string) Event {
	return Event{Kind: EventVerified, Verified: ok, Message: detail}
}

// ResponseEvent carries an Automation API response.
func ResponseEvent(resp *api.Response) Event {
	return Event{Kind: EventResponse, Response: resp}
}

// Task is one blocking call run off the UI goroutine.
type Task func(ctx context.Context) Event

// Handlers receive the event of a task on the UI goroutine. A nil handler
// drops events of its kind.
type Handlers struct {
	OnLog      func(level logpane.Level, msg string)
	OnVerified func(ok bool, detail string)
	OnResponse func(resp *api.Response)
}

// Dispatcher runs tasks on worker goroutines, at most NumCPU at a time, and
// hands each result to the UI runner. There is no ordering between tasks.
type Dispatcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup

	// mu orders wg.Add in Submit before wg.Wait in Close.
	mu     sync.Mutex
	closed bool

	// runOnUI marshals a callback onto the UI goroutine (fyne.Do in the app).
	runOnUI func(func())
}

// NewDispatcher creates a dispatcher. runOnUI nil means callbacks run on the worker.
func NewDispatcher(runOnUI func(func())) *Dispatcher {
	return NewDispatcherWithLimit(runtime.NumCPU(), runOnUI)
}

// NewDispatcherWithLimit is NewDispatcher with an explicit worker limit.
func NewDispatcherWithLimit(limit int, runOnUI func(func())) *Dispatcher {
	if limit < 1 {
		limit = 1
	}
	if runOnUI == nil {
		runOnUI = func(fn func()) { fn() }
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		ctx:     ctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(int64(limit)),
		runOnUI: runOnUI,
	}
}

// Submit starts task in the background and returns immediately.
// After Close, Submit does nothing.
func (d *Dispatcher) Submit(name string, task Task, h Handlers) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		log.Printf("Dispatcher: %s dropped, dispatcher closed", name)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			log.Printf("Dispatcher: %s not started: %v", name, err)
			return
		}
		ev := d.run(name, task)
		d.sem.Release(1)
		d.runOnUI(func() { deliver(ev, h) })
	}()
}

func (d *Dispatcher) run(name string, task Task) (ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Dispatcher: %s panicked: %v", name, r)
			ev = LogEvent(logpane.LevelError, "%s failed: %v", name, r)
		}
	}()
	return task(d.ctx)
}

func deliver(ev Event, h Handlers) {
	switch ev.Kind {
	case EventLog:
		if h.OnLog != nil {
			h.OnLog(ev.Level, ev.Message)
		}
	case EventVerified:
		if h.OnVerified != nil {
			h.OnVerified(ev.Verified, ev.Message)
		}
	case EventResponse:
		if h.OnResponse != nil {
			h.OnResponse(ev.Response)
		}
	}
}

// Wait blocks until every submitted task has handed its event to the UI runner.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels in-flight calls and waits up to timeout for their workers.
// It reports whether all workers finished in time.
func (d *Dispatcher) Close(timeout time.Duration) bool {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		log.Printf("Dispatcher: workers still running after %v", timeout)
		return false
	}
}
