package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer turns bursts of file system events into pass requests. Paths added within
// one window form a request; a request that has not been taken yet absorbs later ones,
// so a slow pass is followed by exactly one more.
type Debouncer struct {
	window time.Duration
	ready  chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	pending []string
	request []string
}

// NewDebouncer creates a Debouncer that waits for window without events before
// issuing a request.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		ready:  make(chan struct{}, 1),
	}
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = insertSorted(d.pending, path)
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.Flush)
		return
	}
	d.timer.Reset(d.window)
}

// Ready receives a value when a request is waiting to be taken.
func (d *Debouncer) Ready() <-chan struct{} {
	return d.ready
}

// Take returns the sorted paths of the waiting request and clears it.
// It returns nil when an earlier Take already consumed the request.
func (d *Debouncer) Take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	request := d.request
	d.request = nil
	return request
}

// Flush ends the current window and issues its request immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len(d.pending) == 0 {
		return
	}
	for _, path := range d.pending {
		d.request = insertSorted(d.request, path)
	}
	d.pending = nil

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Stop discards the running window and its paths.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

func insertSorted(paths []string, path string) []string {
	i, found := slices.BinarySearch(paths, path)
	if found {
		return paths
	}
	return slices.Insert(paths, i, path)
}
