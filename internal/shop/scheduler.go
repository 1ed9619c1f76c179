package shop

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the delay applied to search input before it affects the
// fetch parameters of a listing view
const DefaultDebounce = 300 * time.Millisecond

// FetchFunc executes a listing fetch for one set of view parameters
type FetchFunc func(ctx context.Context, page int, query string, location *Location) (*ListData, error)

// Scheduler serializes the fetches driven by an interactive listing view.
// Page and location changes dispatch immediately, query changes are debounced,
// and every dispatch is stamped with a monotonically increasing sequence
// number so that a stale in-flight result resolving after a newer request can
// never reach the view. Deliveries themselves are serialized as well: the
// staleness check and the delivery happen under one lock, so a result that
// passed its check cannot end up delivered after a newer one. Hold suppresses
// dispatching entirely while location permission resolution is still pending.
type Scheduler struct {
	ctx      context.Context
	fetch    FetchFunc
	deliver  func(*ListData, error)
	debounce time.Duration

	mtx      sync.Mutex
	seq      uint64
	timer    *time.Timer
	held     bool
	closed   bool
	page     int
	query    string
	location *Location

	deliverMtx sync.Mutex
}

// NewScheduler creates a new view fetch scheduler delivering results through
// the given callback. If debounce is <= 0, the default delay is used.
func NewScheduler(ctx context.Context, fetch FetchFunc, deliver func(*ListData, error), debounce time.Duration) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Scheduler{
		ctx:      ctx,
		fetch:    fetch,
		deliver:  deliver,
		debounce: debounce,
		page:     1,
	}
}

// SetPage changes the requested page and dispatches immediately
func (scheduler *Scheduler) SetPage(page int) {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	scheduler.page = page
	scheduler.dispatch()
}

// SetLocation changes the user location and dispatches immediately.
// A nil location is valid and selects the non-distance fetch strategy.
func (scheduler *Scheduler) SetLocation(location *Location) {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	scheduler.location = location
	scheduler.dispatch()
}

// SetQuery changes the search query and dispatches after the debounce delay.
// A new search restarts the view at the first page. Subsequent calls within
// the delay restart it.
func (scheduler *Scheduler) SetQuery(query string) {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	scheduler.query = query
	scheduler.page = 1
	if scheduler.timer != nil {
		scheduler.timer.Stop()
	}
	scheduler.timer = time.AfterFunc(scheduler.debounce, func() {
		scheduler.mtx.Lock()
		defer scheduler.mtx.Unlock()
		scheduler.timer = nil
		scheduler.dispatch()
	})
}

// Hold suppresses dispatching until Release is called.
// Parameter changes are still recorded while held.
func (scheduler *Scheduler) Hold() {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	scheduler.held = true
}

// Release lifts a Hold and dispatches with the current parameters
func (scheduler *Scheduler) Release() {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	if !scheduler.held {
		return
	}
	scheduler.held = false
	scheduler.dispatch()
}

// Close shuts the scheduler down.
// Outstanding completions are discarded and no further fetches are dispatched.
func (scheduler *Scheduler) Close() {
	scheduler.mtx.Lock()
	defer scheduler.mtx.Unlock()
	scheduler.closed = true
	if scheduler.timer != nil {
		scheduler.timer.Stop()
		scheduler.timer = nil
	}
	scheduler.seq++
}

// dispatch starts a fetch with the current parameters.
// The caller must hold the mutex.
func (scheduler *Scheduler) dispatch() {
	if scheduler.held || scheduler.closed {
		return
	}
	scheduler.seq++
	seq := scheduler.seq
	page, query, location := scheduler.page, scheduler.query, scheduler.location

	go func() {
		data, err := scheduler.fetch(scheduler.ctx, page, query, location)

		// The staleness check and the delivery have to be atomic with respect
		// to other completions; a gap between them would let a result that
		// passed its check be delivered after a newer one
		scheduler.deliverMtx.Lock()
		defer scheduler.deliverMtx.Unlock()

		scheduler.mtx.Lock()
		stale := seq != scheduler.seq || scheduler.closed
		scheduler.mtx.Unlock()
		if stale {
			return
		}
		scheduler.deliver(data, err)
	}()
}
