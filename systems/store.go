package systems

import (
	"sort"
	"sync"

	"github.com/diabro/enemy-editor/shared/enemydef"
)

// RecordStore is the in-memory copy of the backend's enemy type set. It
// is a cache, never authoritative: every mutation round-trips through
// the backend and the store is then replaced wholesale.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]enemydef.Record
	ids     []string
	sprites []string
	weapons []string
	rev     int
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]enemydef.Record)}
}

// Replace swaps in a freshly fetched record set. Defaults are applied
// here, once, so every consumer reads fully populated records.
func (s *RecordStore) Replace(records map[string]enemydef.Record, sprites, weapons []string) {
	normalized := make(map[string]enemydef.Record, len(records))
	ids := make([]string, 0, len(records))
	for id, r := range records {
		normalized[id] = r.WithDefaults(id)
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = normalized
	s.ids = ids
	s.sprites = sprites
	s.weapons = weapons
	s.rev++
}

// Rev increments on every Replace, so views can cheaply detect that the
// record set changed under them.
func (s *RecordStore) Rev() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

func (s *RecordStore) Get(id string) (enemydef.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// IDs returns the record ids in sorted order.
func (s *RecordStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Sprites lists the sprite sheet filenames available on the backend.
func (s *RecordStore) Sprites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.sprites))
	copy(out, s.sprites)
	return out
}

// Weapons lists the weapon sheet filenames available on the backend.
func (s *RecordStore) Weapons() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.weapons))
	copy(out, s.weapons)
	return out
}
