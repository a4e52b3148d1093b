package simulation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/daasheo/immortalworld/internal/game/cultivation"
)

// Entry is one cultivator tracked by the roster. The entry owns the exclusive
// mutation boundary for its State: the tick driver, the day-clock reset, and
// the persistence sweep all touch the state through WithState or StateCopy,
// never directly, so the lock-free State stays single-writer.
type Entry struct {
	// ID is the cultivator's unique identifier.
	ID uuid.UUID
	// Name is the display name.
	Name string

	mu    sync.Mutex
	state *cultivation.State
}

// WithState runs fn with exclusive access to the entry's state. fn must not
// retain the *State beyond the call.
func (e *Entry) WithState(fn func(*cultivation.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

// StateCopy returns a consistent clone of the entry's state, safe to read or
// serialize without holding the entry lock.
func (e *Entry) StateCopy() *cultivation.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Roster tracks the cultivators currently loaded into the simulation. The
// roster owns entry lifecycle; per-state serialization is the entries' job.
type Roster struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{entries: make(map[uuid.UUID]*Entry)}
}

// Add creates an entry with a fresh ID for the given name and state. The
// entry takes ownership of state; callers must not mutate it afterwards
// except through WithState.
//
// Precondition: name must be non-empty; state must be non-nil.
// Postcondition: Returns the stored entry with a unique ID.
func (r *Roster) Add(name string, state *cultivation.State) *Entry {
	e := &Entry{
		ID:    uuid.New(),
		Name:  name,
		state: state,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
	return e
}

// Get returns the entry for id, or false if not present.
func (r *Roster) Get(id uuid.UUID) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Remove deletes the entry for id. Removing an absent id is a no-op.
func (r *Roster) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of tracked cultivators.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ForEach invokes fn for every entry. The snapshot is taken under the roster
// lock; fn runs outside it.
func (r *Roster) ForEach(fn func(*Entry)) {
	r.mu.RLock()
	snapshot := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()
	for _, e := range snapshot {
		fn(e)
	}
}
