package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/gateway"
	"go.uber.org/zap"
)

// SchemaVersion is the snapshot layout written by this build
const SchemaVersion = 1

// Keys written by the browser dashboard before snapshots existed
const (
	LegacyCustomersKey = "customer-store"
	LegacyMechanicsKey = "mechanics"
	LegacyReportKey    = "filteredReport"
	LegacyLockKey      = "isLocked"
)

// Snapshot is the persisted mirror of client state
type Snapshot struct {
	SchemaVersion int               `json:"schemaVersion"`
	Customers     []domain.Customer `json:"customers"`
	// Status holds the checked flag per customer ID. The Gateway has no
	// status column so this map is the only durable copy.
	Status    map[int64]bool    `json:"status"`
	Mechanics []domain.Mechanic `json:"mechanics"`
	Report    *domain.Report    `json:"report,omitempty"`
	Session   SessionState      `json:"session"`
	SavedAt   time.Time         `json:"savedAt"`
}

// SessionState is the persisted unlock flag. Generation increments on every
// lock so previously issued session tokens stop validating.
type SessionState struct {
	Unlocked   bool  `json:"unlocked"`
	Generation int64 `json:"generation"`
}

// IsEmpty reports whether nothing has been recorded yet
func (s *Snapshot) IsEmpty() bool {
	return len(s.Customers) == 0 && len(s.Mechanics) == 0 && s.Report == nil &&
		len(s.Status) == 0 && !s.Session.Unlocked && s.Session.Generation == 0
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		Customers:     []domain.Customer{},
		Status:        map[int64]bool{},
		Mechanics:     []domain.Mechanic{},
	}
}

// SnapshotStore reads and writes the snapshot under one namespaced key.
// Update cycles are serialized within the process.
type SnapshotStore struct {
	kv     KV
	key    string
	logger *zap.Logger

	mu sync.Mutex
}

// NewSnapshotStore stores the snapshot at "<namespace>/snapshot"
func NewSnapshotStore(kv KV, namespace string, logger *zap.Logger) *SnapshotStore {
	key := "snapshot"
	if ns := strings.Trim(namespace, "/"); ns != "" {
		key = ns + "/snapshot"
	}
	return &SnapshotStore{kv: kv, key: key, logger: logger}
}

// Key returns the backend key holding the snapshot
func (s *SnapshotStore) Key() string {
	return s.key
}

// Load returns the current snapshot. A missing or undecodable record yields
// an empty snapshot, seeded from legacy keys when any are present.
func (s *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Update applies fn to the current snapshot and writes the result
func (s *SnapshotStore) Update(ctx context.Context, fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	fn(snap)
	return s.save(ctx, snap)
}

// Reset removes the snapshot
func (s *SnapshotStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) load(ctx context.Context) (*Snapshot, error) {
	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.importLegacy(ctx)
	case err != nil:
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("Discarding undecodable snapshot",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return s.importLegacy(ctx)
	}
	if snap.SchemaVersion > SchemaVersion {
		s.logger.Warn("Snapshot written by a newer version, reading best-effort",
			zap.Int("schema_version", snap.SchemaVersion),
		)
	}
	return snap, nil
}

func (s *SnapshotStore) save(ctx context.Context, snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	snap := newSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	if snap.SchemaVersion == 0 {
		return nil, fmt.Errorf("missing schemaVersion")
	}
	if snap.Customers == nil {
		snap.Customers = []domain.Customer{}
	}
	if snap.Status == nil {
		snap.Status = map[int64]bool{}
	}
	if snap.Mechanics == nil {
		snap.Mechanics = []domain.Mechanic{}
	}
	return snap, nil
}

// importLegacy folds the pre-snapshot keys into a fresh snapshot. Each key is
// read best-effort; when anything was found the result is written back.
func (s *SnapshotStore) importLegacy(ctx context.Context) (*Snapshot, error) {
	snap := newSnapshot()
	found := false

	if data, ok := s.legacy(ctx, LegacyCustomersKey); ok {
		records, err := decodeLegacyCustomers(data)
		if err != nil {
			s.logger.Warn("Skipping undecodable legacy customers", zap.Error(err))
		} else {
			for _, rec := range records {
				snap.Customers = append(snap.Customers, rec.Customer)
				id := rec.Customer.ID
				if _, seen := snap.Status[id]; id != 0 && rec.CheckedKnown && !seen {
					snap.Status[id] = rec.Customer.Checked
				}
			}
			found = true
		}
	}

	if data, ok := s.legacy(ctx, LegacyMechanicsKey); ok {
		mechanics, err := gateway.DecodeMechanics(unwrapPersisted(data, "mechanics"))
		if err != nil {
			s.logger.Warn("Skipping undecodable legacy mechanics", zap.Error(err))
		} else {
			snap.Mechanics = mechanics
			found = true
		}
	}

	if data, ok := s.legacy(ctx, LegacyReportKey); ok {
		report, err := gateway.DecodeReport(data)
		if err != nil {
			s.logger.Warn("Skipping undecodable legacy report", zap.Error(err))
		} else {
			report.Source = domain.ReportSourceLocal
			snap.Report = report
			found = true
		}
	}

	if data, ok := s.legacy(ctx, LegacyLockKey); ok {
		var locked bool
		if err := json.Unmarshal(data, &locked); err != nil {
			s.logger.Warn("Skipping undecodable legacy lock flag", zap.Error(err))
		} else {
			snap.Session.Unlocked = !locked
			found = true
		}
	}

	if !found {
		return snap, nil
	}

	s.logger.Info("Imported legacy cache keys into snapshot",
		zap.String("key", s.key),
		zap.Int("customers", len(snap.Customers)),
		zap.Int("mechanics", len(snap.Mechanics)),
	)
	if err := s.save(ctx, snap); err != nil {
		s.logger.Warn("Failed to persist imported snapshot", zap.Error(err))
	}
	return snap, nil
}

func (s *SnapshotStore) legacy(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to read legacy cache key", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// decodeLegacyCustomers accepts the persisted-store envelope
// {"state": {"customers": [...]}, "version": 0} as well as a bare list.
func decodeLegacyCustomers(data []byte) ([]gateway.CustomerRecord, error) {
	return gateway.DecodeCustomers(unwrapPersisted(data, "customers"))
}

func unwrapPersisted(data []byte, field string) []byte {
	var envelope struct {
		State map[string]json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.State != nil {
		if inner, ok := envelope.State[field]; ok {
			return inner
		}
	}
	return data
}
