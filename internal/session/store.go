package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched session keeps its table.
const DefaultIdleTimeout = 30 * time.Minute

// ErrNoSession means the ID is unknown or its entry was pruned.
var ErrNoSession = errors.New("no timesheet loaded for this session")

// Entry is the per-session state: the loaded table and its diagnostics.
type Entry struct {
	ID        string
	Table     *domain.TimesheetTable
	RowErrors []error
	FileName  string
	LoadedAt  time.Time
	LastSeen  time.Time
}

// Store holds one table per browser session. Tables are never shared
// between sessions and are read-only once stored.
type Store struct {
	mu          sync.Mutex
	entries     map[string]*Entry
	idleTimeout time.Duration
	now         func() time.Time
}

// NewStore creates an empty store. A non-positive idleTimeout uses
// DefaultIdleTimeout.
func NewStore(idleTimeout time.Duration) *Store {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Store{
		entries:     make(map[string]*Entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier issued by NewID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// IdleTimeout returns the configured idle timeout.
func (s *Store) IdleTimeout() time.Duration { return s.idleTimeout }

// Put stores table under id, replacing any previous upload.
func (s *Store) Put(id, fileName string, table *domain.TimesheetTable, rowErrors []error) Entry {
	now := s.now()
	e := &Entry{
		ID:        id,
		Table:     table,
		RowErrors: append([]error(nil), rowErrors...),
		FileName:  fileName,
		LoadedAt:  now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return *e
}

// Get returns the entry for id and marks it as seen.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNoSession
	}
	e.LastSeen = s.now()
	return *e, nil
}

// Delete discards the session's table. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Prune drops entries idle longer than the idle timeout and returns how
// many were removed.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.LastSeen) > s.idleTimeout {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Janitor prunes the store every interval until ctx is done.
func (s *Store) Janitor(ctx context.Context, interval time.Duration, onPrune func(int)) error {
	if interval <= 0 {
		interval = s.idleTimeout / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if n := s.Prune(t); n > 0 && onPrune != nil {
				onPrune(n)
			}
		}
	}
}
