// Package events delivers mission change notifications to registered
// observers. Callbacks run synchronously on the publisher's goroutine, so
// they must not block; transports that need buffering do it themselves.
package events

import (
	"sync"
	"time"
)

type Kind string

const (
	KindStatusChanged Kind = "status_changed"
	KindTimerStarted  Kind = "timer_started"
	KindTimerStopped  Kind = "timer_stopped"
	KindErrorLogged   Kind = "error_logged"
	KindDeleted       Kind = "deleted"
)

// Event describes one accepted mutation. Payload is the mission or error log
// as it was written.
type Event struct {
	Kind      Kind      `json:"kind"`
	MissionID string    `json:"mission_id"`
	At        time.Time `json:"at"`
	Payload   any       `json:"payload,omitempty"`
}

type Handler func(Event)

type subscription struct {
	id int64
	fn Handler
}

// Broker is a registry of per-mission observers. The zero value is not
// usable; call NewBroker.
type Broker struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string][]subscription
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]subscription)}
}

// Subscribe registers fn for events on missionID. The returned cancel func is
// safe to call more than once.
func (b *Broker) Subscribe(missionID string, fn Handler) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[missionID] = append(b.subs[missionID], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(missionID, id) })
	}
}

// Publish delivers e to every current observer of e.MissionID. A deleted
// event is the last one a mission's observers receive.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[e.MissionID]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}

	if e.Kind == KindDeleted {
		b.mu.Lock()
		delete(b.subs, e.MissionID)
		b.mu.Unlock()
	}
}

// Count returns the number of observers registered for missionID.
func (b *Broker) Count(missionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[missionID])
}

func (b *Broker) remove(missionID string, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[missionID]
	for i, s := range subs {
		if s.id == id {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.subs, missionID)
		return
	}
	b.subs[missionID] = subs
}
