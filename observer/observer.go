// Package observer implements the coarse "data changed" notification hook
// that every mutating series container exposes.
//
// A Hook holds ordinary (strong) references to its callbacks: whatever a
// registered closure captures stays reachable until Remove is called for
// its Subscription. Observers are not weak references, and the Hook does
// not detect or drop callbacks whose owners are otherwise unreferenced.
package observer

import "sync"

// Callback is invoked with no arguments after a mutating operation has
// left its container in a consistent state.
type Callback func()

// Subscription identifies one registered Callback for later removal.
type Subscription int64

// Hook is an ordered, registration-order set of Callbacks. Add, Remove,
// Notify and Len each hold the Hook's mutex while touching the callback
// list, so calling them from several goroutines does not corrupt it;
// callbacks themselves run with the mutex released.
type Hook struct {
	mu        sync.Mutex
	nextID    Subscription
	callbacks []registered
}

type registered struct {
	id Subscription
	cb Callback
}

// Add registers cb and returns a Subscription that can later be passed to
// Remove. Callbacks fire in registration order.
func (h *Hook) Add(cb Callback) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.callbacks = append(h.callbacks, registered{id: id, cb: cb})
	return id
}

// Remove unregisters the callback associated with id, if still present.
func (h *Hook) Remove(id Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, r := range h.callbacks {
		if r.id == id {
			h.callbacks = append(h.callbacks[:i], h.callbacks[i+1:]...)
			return
		}
	}
}

// Notify invokes every registered callback in registration order. A
// panicking callback does not prevent the remaining callbacks from
// running; the panic is recovered and swallowed, since one misbehaving
// observer must not stop the others from seeing the notification.
// Mutating a Hook's own container from within a callback is
// the caller's responsibility to get right — Notify takes a snapshot of
// the callback slice before iterating so re-entrant Add/Remove calls
// cannot corrupt this Notify's iteration, but may still race with state
// the callback mutates.
func (h *Hook) Notify() {
	h.mu.Lock()
	snapshot := make([]registered, len(h.callbacks))
	copy(snapshot, h.callbacks)
	h.mu.Unlock()

	for _, r := range snapshot {
		invoke(r.cb)
	}
}

func invoke(cb Callback) {
	defer func() { _ = recover() }()
	cb()
}

// Len reports the number of currently registered callbacks.
func (h *Hook) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.callbacks)
}
