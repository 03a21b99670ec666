package store

import "github.com/advcompro/garage-dashboard/internal/domain"

// EventKind names the mutation that produced an Event
type EventKind string

const (
	EventHydrated          EventKind = "hydrated"
	EventCustomersLoaded   EventKind = "customers_loaded"
	EventCustomerAdded     EventKind = "customer_added"
	EventCustomerDeleted   EventKind = "customer_deleted"
	EventCustomerToggled   EventKind = "customer_toggled"
	EventCustomersReplaced EventKind = "customers_replaced"
	EventMechanicsLoaded   EventKind = "mechanics_loaded"
	EventMechanicAdded     EventKind = "mechanic_added"
	EventMechanicDeleted   EventKind = "mechanic_deleted"
)

// Event is published after a mutation has been applied. Counts reflect the
// state immediately after that mutation.
type Event struct {
	Kind           EventKind
	Customer       *domain.Customer
	Mechanic       *domain.Mechanic
	TotalCustomers int
	ActiveRepairs  int
	TotalMechanics int
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Events arrive in mutation order on the mutating goroutine,
// after the store lock is released. fn must not mutate the store.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
