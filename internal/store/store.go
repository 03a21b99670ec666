// Package store holds the in-memory mirror of Gateway data. The Gateway is
// authoritative: every write goes to it first and is applied locally only
// after it succeeds. The active repair count is recomputed under the same
// lock as each customer mutation, and the result is mirrored into a snapshot.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultPersistTimeout = 5 * time.Second

// Gateway is the subset of the remote API the store calls
type Gateway interface {
	ListCustomers(ctx context.Context) ([]gateway.CustomerRecord, error)
	AddCustomer(ctx context.Context, customer *domain.Customer) (*gateway.CustomerRecord, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListMechanics(ctx context.Context) ([]domain.Mechanic, error)
	AddMechanic(ctx context.Context, mechanic *domain.Mechanic) (*domain.Mechanic, error)
	DeleteMechanic(ctx context.Context, id int64) error
}

// Snapshots persists the mirrored state
type Snapshots interface {
	Load(ctx context.Context) (*cache.Snapshot, error)
	Update(ctx context.Context, fn func(*cache.Snapshot)) error
}

// Store is the client state store
type Store struct {
	gw             Gateway
	snapshots      Snapshots
	logger         *zap.Logger
	now            func() time.Time
	persistTimeout time.Duration

	mu            sync.Mutex
	customers     []domain.Customer
	status        map[int64]bool
	mechanics     []domain.Mechanic
	activeRepairs int
	pendingCust   map[int64]struct{}
	pendingMech   map[int64]struct{}

	// deliverMu orders persistence and event delivery across mutations
	deliverMu sync.Mutex

	subsMu      sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now for submission timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithPersistTimeout bounds each snapshot write
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.persistTimeout = d
	}
}

// New creates an empty store. snapshots may be nil to disable persistence.
func New(gw Gateway, snapshots Snapshots, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		gw:             gw,
		snapshots:      snapshots,
		logger:         logger,
		now:            time.Now,
		persistTimeout: defaultPersistTimeout,
		customers:      []domain.Customer{},
		status:         make(map[int64]bool),
		mechanics:      []domain.Mechanic{},
		pendingCust:    make(map[int64]struct{}),
		pendingMech:    make(map[int64]struct{}),
		subscribers:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate fills the store from the snapshot so the first render does not
// wait for the Gateway. Nothing is written back.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.mu.Lock()
	s.customers = cloneCustomers(snap.Customers)
	// Legacy caches numbered customers by list length, so IDs may repeat
	s.assignMissingIDs()
	for i := range s.customers {
		c := &s.customers[i]
		if checked, ok := snap.Status[c.ID]; ok && !c.Synthetic {
			c.Checked = checked
		}
	}
	s.rebuildStatus()
	s.mechanics = append([]domain.Mechanic{}, snap.Mechanics...)
	s.recount()

	s.logger.Info("Store hydrated from snapshot",
		zap.Int("customers", len(s.customers)),
		zap.Int("mechanics", len(s.mechanics)),
		zap.Int("active_repairs", s.activeRepairs),
	)
	s.finish(Event{Kind: EventHydrated}, nil)
	return nil
}

// LoadCustomers replaces the collection with the Gateway's list. Records
// without a checked field keep the status last recorded for their ID.
func (s *Store) LoadCustomers(ctx context.Context) error {
	records, err := s.gw.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	s.mu.Lock()
	customers := make([]domain.Customer, 0, len(records))
	for _, rec := range records {
		c := rec.Customer
		c.Synthetic = false
		switch {
		case rec.CheckedKnown:
		case c.ID != 0:
			c.Checked = s.status[c.ID]
		default:
			c.Checked = false
		}
		customers = append(customers, c)
	}
	s.customers = customers
	s.assignMissingIDs()
	s.rebuildStatus()
	s.recount()

	s.logger.Info("Customers loaded",
		zap.Int("count", len(s.customers)),
		zap.Int("active_repairs", s.activeRepairs),
	)
	s.finish(Event{Kind: EventCustomersLoaded}, s.customerState())
	return nil
}

// AddCustomer submits c to the Gateway and appends the result. The record
// echoed by the Gateway is preferred; when none is echoed the submitted
// payload is used and, lacking an ID, gets a synthetic one.
//
// When the resulting ID is already held locally the Gateway wins: a record
// with a synthetic ID is renumbered and kept, while a Gateway-issued record
// is replaced by the new one, since the Gateway no longer knows it under
// that ID. The next LoadCustomers reconciles either case.
func (s *Store) AddCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	c.Checked = false
	c.Synthetic = false

	echo, err := s.gw.AddCustomer(ctx, &c)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to add customer: %w", err)
	}

	record := c
	if echo != nil {
		record = mergeEcho(echo.Customer, c)
	}
	record.Checked = false

	s.mu.Lock()
	if record.ID == 0 {
		record.ID = s.nextCustomerID()
		record.Synthetic = true
	}
	switch idx := s.customerIndex(record.ID); {
	case idx < 0:
		s.customers = append(s.customers, record)
	case s.customers[idx].Synthetic && !record.Synthetic:
		// The local placeholder yields its number to the Gateway's ID
		moved := s.nextCustomerID()
		s.logger.Warn("Renumbered locally assigned customer ID taken by the Gateway",
			zap.Int64("customer_id", record.ID),
			zap.Int64("new_customer_id", moved),
		)
		s.customers[idx].ID = moved
		s.customers = append(s.customers, record)
	default:
		s.logger.Warn("Gateway returned an ID already present, replacing local record",
			zap.Int64("customer_id", record.ID),
		)
		s.customers[idx] = record
	}
	s.rebuildStatus()
	s.recount()

	s.logger.Info("Customer added",
		zap.Int64("customer_id", record.ID),
		zap.Bool("synthetic_id", record.Synthetic),
		zap.Int("active_repairs", s.activeRepairs),
	)
	added := record
	s.finish(Event{Kind: EventCustomerAdded, Customer: &added}, s.customerState())
	return record, nil
}

// DeleteCustomer deletes the customer at the Gateway, then locally. IDs that
// the Gateway cannot know (zero, unknown, synthetic) fail with
// domain.ErrDataIntegrity before any call is made.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	s.mu.Lock()
	if id == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: customer id is required", domain.ErrDataIntegrity)
	}
	idx := s.customerIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w: %d", domain.ErrDataIntegrity, domain.ErrCustomerNotFound, id)
	}
	if s.customers[idx].Synthetic {
		s.mu.Unlock()
		return fmt.Errorf("%w: customer %d has a locally assigned id and cannot be deleted until reloaded", domain.ErrDataIntegrity, id)
	}
	if _, busy := s.pendingCust[id]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: customer %d", domain.ErrMutationInFlight, id)
	}
	s.pendingCust[id] = struct{}{}
	s.mu.Unlock()

	err := s.gw.DeleteCustomer(ctx, id)

	s.mu.Lock()
	delete(s.pendingCust, id)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}

	var removed *domain.Customer
	if idx := s.customerIndex(id); idx >= 0 {
		c := s.customers[idx]
		removed = &c
		s.customers = append(s.customers[:idx:idx], s.customers[idx+1:]...)
	}
	s.rebuildStatus()
	s.recount()

	s.logger.Info("Customer deleted",
		zap.Int64("customer_id", id),
		zap.Int("active_repairs", s.activeRepairs),
	)
	s.finish(Event{Kind: EventCustomerDeleted, Customer: removed}, s.customerState())
	return nil
}

// ToggleChecked flips the checked flag of one customer. The Gateway has no
// status field so nothing is sent remotely.
func (s *Store) ToggleChecked(id int64) (domain.Customer, error) {
	s.mu.Lock()
	idx := s.customerIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Customer{}, fmt.Errorf("%w: %d", domain.ErrCustomerNotFound, id)
	}
	return s.toggleLocked(idx)
}

// ToggleCheckedAt flips the checked flag of the customer at a zero-based
// table position
func (s *Store) ToggleCheckedAt(position int) (domain.Customer, error) {
	s.mu.Lock()
	if position < 0 || position >= len(s.customers) {
		n := len(s.customers)
		s.mu.Unlock()
		return domain.Customer{}, fmt.Errorf("%w: position %d out of range [0,%d)", domain.ErrCustomerNotFound, position, n)
	}
	return s.toggleLocked(position)
}

// toggleLocked must be called with s.mu held; it releases it
func (s *Store) toggleLocked(idx int) (domain.Customer, error) {
	c := &s.customers[idx]
	if _, busy := s.pendingCust[c.ID]; busy {
		id := c.ID
		s.mu.Unlock()
		return domain.Customer{}, fmt.Errorf("%w: customer %d", domain.ErrMutationInFlight, id)
	}
	c.Checked = !c.Checked
	if !c.Synthetic {
		s.status[c.ID] = c.Checked
	}
	s.recount()

	toggled := *c
	s.logger.Debug("Customer status toggled",
		zap.Int64("customer_id", toggled.ID),
		zap.Bool("checked", toggled.Checked),
		zap.Int("active_repairs", s.activeRepairs),
	)
	ev := toggled
	s.finish(Event{Kind: EventCustomerToggled, Customer: &ev}, s.customerState())
	return toggled, nil
}

// ReplaceAll swaps in a new collection without calling the Gateway. Missing
// or duplicate IDs are replaced with synthetic ones.
func (s *Store) ReplaceAll(customers []domain.Customer) {
	s.mu.Lock()
	s.customers = cloneCustomers(customers)
	s.assignMissingIDs()
	s.rebuildStatus()
	s.recount()

	s.logger.Info("Customers replaced",
		zap.Int("count", len(s.customers)),
		zap.Int("active_repairs", s.activeRepairs),
	)
	s.finish(Event{Kind: EventCustomersReplaced}, s.customerState())
}

// LoadMechanics replaces the mechanic list with the Gateway's
func (s *Store) LoadMechanics(ctx context.Context) error {
	mechanics, err := s.gw.ListMechanics(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mechanics: %w", err)
	}

	s.mu.Lock()
	s.mechanics = append([]domain.Mechanic{}, mechanics...)
	s.logger.Info("Mechanics loaded", zap.Int("count", len(s.mechanics)))
	s.finish(Event{Kind: EventMechanicsLoaded}, s.mechanicState())
	return nil
}

// AddMechanic submits m to the Gateway and appends the echoed record, or the
// submitted one when nothing is echoed
func (s *Store) AddMechanic(ctx context.Context, m domain.Mechanic) (domain.Mechanic, error) {
	echo, err := s.gw.AddMechanic(ctx, &m)
	if err != nil {
		return domain.Mechanic{}, fmt.Errorf("failed to add mechanic: %w", err)
	}

	record := m
	if echo != nil {
		record = *echo
		if record.FirstName == "" {
			record.FirstName = m.FirstName
		}
		if record.LastName == "" {
			record.LastName = m.LastName
		}
		if record.Tel == "" {
			record.Tel = m.Tel
		}
	}

	s.mu.Lock()
	if idx := s.mechanicIndex(record.ID); record.ID != 0 && idx >= 0 {
		s.mechanics[idx] = record
	} else {
		s.mechanics = append(s.mechanics, record)
	}
	s.logger.Info("Mechanic added",
		zap.Int64("mechanic_id", record.ID),
		zap.String("mechanic", record.DisplayName()),
	)
	added := record
	s.finish(Event{Kind: EventMechanicAdded, Mechanic: &added}, s.mechanicState())
	return record, nil
}

// DeleteMechanic deletes at the Gateway, then filters the mechanic out by ID
func (s *Store) DeleteMechanic(ctx context.Context, id int64) error {
	s.mu.Lock()
	if id == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: mechanic id is required", domain.ErrDataIntegrity)
	}
	if s.mechanicIndex(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w: %d", domain.ErrDataIntegrity, domain.ErrMechanicNotFound, id)
	}
	if _, busy := s.pendingMech[id]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: mechanic %d", domain.ErrMutationInFlight, id)
	}
	s.pendingMech[id] = struct{}{}
	s.mu.Unlock()

	err := s.gw.DeleteMechanic(ctx, id)

	s.mu.Lock()
	delete(s.pendingMech, id)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete mechanic %d: %w", id, err)
	}

	var removed *domain.Mechanic
	kept := s.mechanics[:0:0]
	for _, m := range s.mechanics {
		if m.ID == id {
			m := m
			removed = &m
			continue
		}
		kept = append(kept, m)
	}
	s.mechanics = kept
	s.logger.Info("Mechanic deleted", zap.Int64("mechanic_id", id))
	s.finish(Event{Kind: EventMechanicDeleted, Mechanic: removed}, s.mechanicState())
	return nil
}

// Refresh reloads customers and mechanics concurrently. Each list is applied
// on its own success; failures are joined.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		g                errgroup.Group
		custErr, mechErr error
	)
	g.Go(func() error {
		custErr = s.LoadCustomers(ctx)
		return nil
	})
	g.Go(func() error {
		mechErr = s.LoadMechanics(ctx)
		return nil
	})
	_ = g.Wait()
	return errors.Join(custErr, mechErr)
}

// Customers returns a copy of the collection in table order
func (s *Store) Customers() []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCustomers(s.customers)
}

// CustomerTable returns a copy of the customers together with the active
// repair count taken under the same lock
func (s *Store) CustomerTable() ([]domain.Customer, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCustomers(s.customers), s.activeRepairs
}

// Customer returns a copy of one customer
func (s *Store) Customer(id int64) (domain.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.customerIndex(id); idx >= 0 {
		return s.customers[idx], true
	}
	return domain.Customer{}, false
}

// Mechanics returns a copy of the mechanic list
func (s *Store) Mechanics() []domain.Mechanic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Mechanic{}, s.mechanics...)
}

// ActiveRepairCount is the number of customers not yet checked
func (s *Store) ActiveRepairCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRepairs
}

// finish completes a mutation. It must be called with s.mu held and releases
// it, then persists and publishes while holding deliverMu so that snapshot
// writes and events keep mutation order.
func (s *Store) finish(ev Event, persist func(*cache.Snapshot)) {
	ev.TotalCustomers = len(s.customers)
	ev.ActiveRepairs = s.activeRepairs
	ev.TotalMechanics = len(s.mechanics)

	s.deliverMu.Lock()
	s.mu.Unlock()
	defer s.deliverMu.Unlock()

	if persist != nil {
		s.persist(persist)
	}
	s.publish(ev)
}

func (s *Store) persist(apply func(*cache.Snapshot)) {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.snapshots.Update(ctx, apply); err != nil {
		s.logger.Warn("Failed to persist snapshot", zap.Error(err))
	}
}

// customerState captures the customer half of the snapshot. Requires s.mu.
func (s *Store) customerState() func(*cache.Snapshot) {
	customers := cloneCustomers(s.customers)
	status := make(map[int64]bool, len(s.status))
	for id, checked := range s.status {
		status[id] = checked
	}
	return func(snap *cache.Snapshot) {
		snap.Customers = customers
		snap.Status = status
	}
}

// mechanicState captures the mechanic half of the snapshot. Requires s.mu.
func (s *Store) mechanicState() func(*cache.Snapshot) {
	mechanics := append([]domain.Mechanic{}, s.mechanics...)
	return func(snap *cache.Snapshot) {
		snap.Mechanics = mechanics
	}
}

func (s *Store) recount() {
	n := 0
	for i := range s.customers {
		if !s.customers[i].Checked {
			n++
		}
	}
	s.activeRepairs = n
}

// rebuildStatus keeps one entry per non-synthetic customer
func (s *Store) rebuildStatus() {
	status := make(map[int64]bool, len(s.customers))
	for i := range s.customers {
		c := &s.customers[i]
		if c.ID != 0 && !c.Synthetic {
			status[c.ID] = c.Checked
		}
	}
	s.status = status
}

// assignMissingIDs gives zero and duplicate IDs a synthetic replacement
func (s *Store) assignMissingIDs() {
	seen := make(map[int64]bool, len(s.customers))
	next := s.nextCustomerID()
	for i := range s.customers {
		c := &s.customers[i]
		if c.ID == 0 || seen[c.ID] {
			c.ID = next
			c.Synthetic = true
			next++
		}
		seen[c.ID] = true
	}
}

func (s *Store) nextCustomerID() int64 {
	var highest int64
	for i := range s.customers {
		if s.customers[i].ID > highest {
			highest = s.customers[i].ID
		}
	}
	return highest + 1
}

func (s *Store) customerIndex(id int64) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) mechanicIndex(id int64) int {
	for i := range s.mechanics {
		if s.mechanics[i].ID == id {
			return i
		}
	}
	return -1
}

// mergeEcho prefers the Gateway's values and falls back to the submitted
// payload for fields the echo left empty. The submission timestamp is kept.
func mergeEcho(echo, submitted domain.Customer) domain.Customer {
	out := echo
	if out.Name.IsZero() {
		out.Name = submitted.Name
	}
	if out.Tel == "" {
		out.Tel = submitted.Tel
	}
	if out.LicensePlate == "" {
		out.LicensePlate = submitted.LicensePlate
	}
	if out.Brand == "" {
		out.Brand = submitted.Brand
	}
	if out.Model == "" {
		out.Model = submitted.Model
	}
	if out.Symptom == "" {
		out.Symptom = submitted.Symptom
	}
	if out.Cost.IsZero() {
		out.Cost = submitted.Cost
	}
	if out.Mechanic == "" {
		out.Mechanic = submitted.Mechanic
	}
	out.Timestamp = submitted.Timestamp
	out.Synthetic = false
	return out
}

func cloneCustomers(in []domain.Customer) []domain.Customer {
	return append([]domain.Customer{}, in...)
}
