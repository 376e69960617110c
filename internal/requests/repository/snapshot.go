// Package repository stores quote snapshots for the requests module, either
// in Redis (shared across API replicas) or in process memory.
package repository

import (
	"context"
	"sync"
	"time"

	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgSnapshotNotFound = "no stored quote for this request"

// MemorySnapshotStore keeps snapshots in a map with a per-entry expiry.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

type memoryEntry struct {
	snap    domain.QuoteSnapshot
	expires time.Time
}

// NewMemorySnapshotStore creates an in-process store. A non-positive ttl keeps
// entries until they are deleted.
func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	return &MemorySnapshotStore{
		items: make(map[uuid.UUID]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Save stores or replaces the snapshot of a request.
func (m *MemorySnapshotStore) Save(_ context.Context, snap domain.QuoteSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{snap: snap}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.items[snap.RequestID] = entry
	return nil
}

// Get returns the snapshot or a NotFound error when missing or expired.
func (m *MemorySnapshotStore) Get(_ context.Context, requestID uuid.UUID) (domain.QuoteSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[requestID]
	if !ok {
		return domain.QuoteSnapshot{}, apperr.NotFound(msgSnapshotNotFound)
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		delete(m.items, requestID)
		return domain.QuoteSnapshot{}, apperr.NotFound(msgSnapshotNotFound)
	}
	return entry.snap, nil
}

// Delete removes the snapshot. Deleting a missing snapshot is not an error.
func (m *MemorySnapshotStore) Delete(_ context.Context, requestID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, requestID)
	return nil
}
