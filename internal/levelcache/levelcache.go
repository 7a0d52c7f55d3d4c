// Package levelcache persists resolved specialty levels between runs so a
// reload does not have to hit the lookup endpoint again. The cache is a
// single JSON slot on disk keyed by normalized specialty code. Persistence is
// strictly best effort: losing the file costs lookups, never correctness.
package levelcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cursos-madrid/internal/domain"
)

const (
	// DefaultTTL is how long a stored level is trusted.
	DefaultTTL = 180 * 24 * time.Hour
	// DefaultMaxEntries bounds the slot; oldest entries are evicted first.
	DefaultMaxEntries = 1000
)

// Entry is one cached resolution.
type Entry struct {
	Level     string    `json:"level"`
	DetailURL string    `json:"detailUrl"`
	StoredAt  time.Time `json:"storedAt"`
}

// Store reads and writes the durable slot.
type Store struct {
	Path       string
	TTL        time.Duration
	MaxEntries int

	now func() time.Time // overridable in tests
}

func NewStore(path string) *Store {
	return &Store{
		Path:       path,
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Store) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Store) maxEntries() int {
	if s.MaxEntries > 0 {
		return s.MaxEntries
	}
	return DefaultMaxEntries
}

// Load reads the slot and drops entries older than the expiry window.
// A missing or unreadable slot yields an empty mapping; Load never fails
// the caller.
func (s *Store) Load() map[string]Entry {
	entries := map[string]Entry{}
	if s == nil || s.Path == "" {
		return entries
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]Entry{}
	}

	cutoff := s.clock().Add(-s.ttl())
	for key, e := range entries {
		if !e.StoredAt.After(cutoff) {
			delete(entries, key)
		}
	}
	return entries
}

// Save persists the mapping, trimming to the capacity bound first: only the
// most-recently-stored entries survive. Write failures are swallowed —
// enrichment must not depend on persistence succeeding.
func (s *Store) Save(entries map[string]Entry) {
	if s == nil || s.Path == "" {
		return
	}

	data, err := json.MarshalIndent(trim(entries, s.maxEntries()), "", "  ")
	if err != nil {
		return
	}

	// write-then-rename keeps a crashed save from corrupting the slot
	tmp := s.Path + ".tmp"
	if dir := filepath.Dir(s.Path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, s.Path)
}

func trim(entries map[string]Entry, max int) map[string]Entry {
	if len(entries) <= max {
		return entries
	}

	type keyed struct {
		key string
		e   Entry
	}
	all := make([]keyed, 0, len(entries))
	for k, e := range entries {
		all = append(all, keyed{k, e})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].e.StoredAt.Equal(all[j].e.StoredAt) {
			return all[i].e.StoredAt.After(all[j].e.StoredAt)
		}
		return all[i].key < all[j].key // deterministic tie-break
	})

	kept := make(map[string]Entry, max)
	for _, ke := range all[:max] {
		kept[ke.key] = ke.e
	}
	return kept
}

// Hydrate fills levels (and missing detail URLs) from the cache mapping
// without any network call. A course's already-populated level is never
// overwritten, and courses whose normalized code is empty never match.
// Returns how many courses were filled.
func Hydrate(courses []domain.Course, entries map[string]Entry) int {
	filled := 0
	for i := range courses {
		c := &courses[i]
		if c.Level != "" {
			continue
		}
		key := domain.NormalizeCode(c.SpecialtyCode)
		if key == "" {
			continue
		}
		e, ok := entries[key]
		if !ok || e.Level == "" {
			continue
		}
		c.Level = e.Level
		if c.DetailURL == "" && e.DetailURL != "" {
			c.DetailURL = e.DetailURL
		}
		filled++
	}
	return filled
}
