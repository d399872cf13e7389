package registry

import (
	"fmt"
	"sync"

	"objbrowse/internal/logging"
)

var regLog = logging.ForComponent(logging.CompSession)

// Registry tracks the numbered slots of open browser windows. Slot numbers
// feed into persistent-settings keys and initial window placement, so
// repeatedly opening and closing windows must not grow the numbers: a freed
// slot is reused before a new one is appended.
//
// A Registry is owned by the application and passed to each session at
// construction. Access is serialized internally because session teardown may
// run off the UI goroutine during shutdown.
type Registry struct {
	mu    sync.Mutex
	slots []any // occupant per slot, nil when free
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Acquire assigns occupant to the lowest free slot, appending a new slot if
// none is free, and returns the slot index.
func (r *Registry) Acquire(occupant any) int {
	if occupant == nil {
		panic("registry: Acquire with nil occupant")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slots {
		if s == nil {
			r.slots[i] = occupant
			regLog.Printf("reusing slot %d", i)
			return i
		}
	}
	r.slots = append(r.slots, occupant)
	idx := len(r.slots) - 1
	regLog.Printf("appended slot %d", idx)
	return idx
}

// Release frees the occupant's slot. The slot sequence is never compacted,
// so other occupants keep their indices. Releasing an occupant that holds no
// slot is an invariant violation.
func (r *Registry) Release(occupant any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slots {
		if s == occupant {
			r.slots[i] = nil
			regLog.Printf("released slot %d", i)
			return
		}
	}
	panic("registry: Release of occupant that holds no slot")
}

// Len returns the current number of slots, occupied or free.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// VerifyAllReleased panics if any slot is still occupied. Intended to run
// once at process shutdown: an occupied slot at that point is a leaked
// session, which is a bug, not a runtime condition.
func (r *Registry) VerifyAllReleased() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slots {
		if s != nil {
			panic(fmt.Sprintf("registry: slot %d not released at shutdown", i))
		}
	}
}
