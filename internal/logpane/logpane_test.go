package logpane

import (
	"fmt"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 1, 9, 5, 7, 0, time.Local) }
}

func TestEntryString(t *testing.T) {
	e := Entry{Time: fixedClock()(), Level: LevelInfo, Message: "client started"}
	if got, want := e.String(), "09:05:07 - client started"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAppendFilters(t *testing.T) {
	b := NewBuffer(10)
	b.SetClock(fixedClock())

	t.Run("empty message dropped", func(t *testing.T) {
		if _, ok := b.Append(LevelInfo, ""); ok {
			t.Error("expected empty message to be dropped")
		}
	})

	t.Run("errors hidden", func(t *testing.T) {
		b.SetShowErrors(false)
		if _, ok := b.Append(LevelError, "bad"); ok {
			t.Error("expected error entry to be dropped")
		}
		b.SetShowErrors(true)
	})

	t.Run("debug hidden", func(t *testing.T) {
		b.SetShowDebug(false)
		if _, ok := b.Append(LevelDebug, "trace"); ok {
			t.Error("expected debug entry to be dropped")
		}
		if _, ok := b.Append(LevelInfo, "info still shown"); !ok {
			t.Error("expected info entry to be kept")
		}
		b.SetShowDebug(true)
	})

	if b.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", b.Len())
	}
}

func TestCapacityAndListeners(t *testing.T) {
	b := NewBuffer(3)
	var seen []string
	b.OnAppend(func(e Entry) { seen = append(seen, e.Message) })

	for i := 0; i < 5; i++ {
		b.Append(LevelInfo, fmt.Sprintf("m%d", i))
	}

	entries := b.Entries()
	if len(entries) != 3 || entries[0].Message != "m2" || entries[2].Message != "m4" {
		t.Errorf("unexpected entries after overflow: %+v", entries)
	}
	if len(seen) != 5 {
		t.Errorf("expected listener to see 5 entries, got %d", len(seen))
	}

	b.Clear()
	if b.Len() != 0 {
		t.Errorf("expected empty buffer after Clear, got %d", b.Len())
	}
}
