// Package logpane holds the entries of the client's scrollback log view.
package logpane

import (
	"fmt"
	"sync"
	"time"
)

// Level values match the ones the client has always used (Info 0, Error 10, Debug 20).
type Level int

const (
	LevelInfo  Level = 0
	LevelError Level = 10
	LevelDebug Level = 20
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// DefaultCapacity bounds the scrollback; the oldest entries are dropped first.
const DefaultCapacity = 2000

// Entry is one line of the log view.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// String renders the entry as "HH:MM:SS - message".
func (e Entry) String() string {
	return fmt.Sprintf("%s - %s", e.Time.Format("15:04:05"), e.Message)
}

// Buffer is the scrollback. Error and Debug entries are discarded on append
// while their toggle is off; toggling later does not bring them back.
type Buffer struct {
	mu         sync.RWMutex
	entries    []Entry
	capacity   int
	showErrors bool
	showDebug  bool
	now        func() time.Time
	listeners  []func(Entry)
}

// NewBuffer creates a buffer with both toggles on.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity:   capacity,
		showErrors: true,
		showDebug:  true,
		now:        time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (b *Buffer) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *Buffer) SetShowErrors(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.showErrors = on
}

func (b *Buffer) SetShowDebug(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.showDebug = on
}

func (b *Buffer) ShowErrors() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.showErrors
}

func (b *Buffer) ShowDebug() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.showDebug
}

// OnAppend registers fn to be called with every accepted entry, outside the lock.
func (b *Buffer) OnAppend(fn func(Entry)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Append records msg at level. Empty messages and filtered levels are
// dropped; the return value reports whether the entry was kept.
func (b *Buffer) Append(level Level, msg string) (Entry, bool) {
	if msg == "" {
		return Entry{}, false
	}
	b.mu.Lock()
	switch level {
	case LevelError:
		if !b.showErrors {
			b.mu.Unlock()
			return Entry{}, false
		}
	case LevelDebug:
		if !b.showDebug {
			b.mu.Unlock()
			return Entry{}, false
		}
	}
	e := Entry{Time: b.now(), Level: level, Message: msg}
	b.entries = append(b.entries, e)
	if over := len(b.entries) - b.capacity; over > 0 {
		b.entries = append(b.entries[:0:0], b.entries[over:]...)
	}
	listeners := append([]func(Entry){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
	return e, true
}

// Entries returns a copy of the kept entries, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
