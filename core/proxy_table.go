package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ProxyStatus is the last known state of a listener on the recorder.
type ProxyStatus int

const (
	ProxyListening ProxyStatus = iota
	ProxyStopped
)

func (s ProxyStatus) String() string {
	if s == ProxyListening {
		return "Listening"
	}
	return "Stopped"
}

var (
	// ErrProxyNotFound is returned for a port with no row in the table.
	ErrProxyNotFound = errors.New("proxy not found")
	// ErrProxyListening is returned when removing a row that is still listening.
	ErrProxyListening = errors.New("proxy is still listening")
)

// ProxyListener is one row of the proxy table.
type ProxyListener struct {
	Port      int
	Encrypted bool
	Status    ProxyStatus
	// Busy is set while a call for this port is in flight.
	Busy bool
}

// ProxyTable holds the listeners started from this client, one row per port,
// ordered by port. It lives in memory only.
type ProxyTable struct {
	mu        sync.RWMutex
	rows      []ProxyListener
	onChanged func()
}

func NewProxyTable() *ProxyTable {
	return &ProxyTable{}
}

// SetOnChanged registers fn to run after every modification, outside the lock.
func (t *ProxyTable) SetOnChanged(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChanged = fn
}

func (t *ProxyTable) notify() {
	t.mu.RLock()
	fn := t.onChanged
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *ProxyTable) indexOf(port int) int {
	for i := range t.rows {
		if t.rows[i].Port == port {
			return i
		}
	}
	return -1
}

// Upsert adds a row for port or replaces the existing one, clearing Busy.
func (t *ProxyTable) Upsert(port int, encrypted bool, status ProxyStatus) {
	t.mu.Lock()
	row := ProxyListener{Port: port, Encrypted: encrypted, Status: status}
	if i := t.indexOf(port); i >= 0 {
		t.rows[i] = row
	} else {
		t.rows = append(t.rows, row)
		sort.Slice(t.rows, func(a, b int) bool { return t.rows[a].Port < t.rows[b].Port })
	}
	t.mu.Unlock()
	t.notify()
}

// SetStatus changes the status of port. It reports whether the row exists.
func (t *ProxyTable) SetStatus(port int, status ProxyStatus) bool {
	t.mu.Lock()
	i := t.indexOf(port)
	if i >= 0 {
		t.rows[i].Status = status
	}
	t.mu.Unlock()
	if i < 0 {
		return false
	}
	t.notify()
	return true
}

// SetAllStatus changes the status of every row.
func (t *ProxyTable) SetAllStatus(status ProxyStatus) {
	t.mu.Lock()
	for i := range t.rows {
		t.rows[i].Status = status
	}
	t.mu.Unlock()
	t.notify()
}

// SetBusy marks port as having a call in flight. It reports whether the row exists.
func (t *ProxyTable) SetBusy(port int, busy bool) bool {
	t.mu.Lock()
	i := t.indexOf(port)
	if i >= 0 {
		t.rows[i].Busy = busy
	}
	t.mu.Unlock()
	if i < 0 {
		return false
	}
	t.notify()
	return true
}

// Remove deletes the row for port. Only stopped rows can be removed.
func (t *ProxyTable) Remove(port int) error {
	t.mu.Lock()
	i := t.indexOf(port)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("remove port %d: %w", port, ErrProxyNotFound)
	}
	if t.rows[i].Status == ProxyListening {
		t.mu.Unlock()
		return fmt.Errorf("remove port %d: %w", port, ErrProxyListening)
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	t.mu.Unlock()
	t.notify()
	return nil
}

// Find returns the row for port.
func (t *ProxyTable) Find(port int) (ProxyListener, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(port); i >= 0 {
		return t.rows[i], true
	}
	return ProxyListener{}, false
}

// At returns the i-th row in port order.
func (t *ProxyTable) At(i int) (ProxyListener, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.rows) {
		return ProxyListener{}, false
	}
	return t.rows[i], true
}

// Rows returns a copy of all rows.
func (t *ProxyTable) Rows() []ProxyListener {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]ProxyListener, len(t.rows))
	copy(result, t.rows)
	return result
}

func (t *ProxyTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
