// Package enrich resolves the certificate level for selected courses, first
// from the durable cache and then through a bounded fan-out of live lookups.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cursos-madrid/internal/concurrency"
	"cursos-madrid/internal/domain"
	"cursos-madrid/internal/levelcache"
)

// ErrEndpointUnconfigured aborts a run before any lookup is attempted. It is
// the only aggregate failure a run can report; individual lookup failures
// just leave their course unresolved.
var ErrEndpointUnconfigured = errors.New("enrich: lookup endpoint not configured")

// Result is one successful lookup.
type Result struct {
	Level     string
	DetailURL string
}

// Lookup is the slow external endpoint, keyed by normalized specialty code.
type Lookup interface {
	SpecialtyLevel(ctx context.Context, code string) (Result, error)
}

// DefaultWorkers bounds how many lookups are in flight at once.
const DefaultWorkers = 4

// Scheduler drives one enrichment run over a batch.
type Scheduler struct {
	Client  Lookup
	Cache   *levelcache.Store
	Workers int

	now func() time.Time // overridable in tests
}

// Summary describes how a run went.
type Summary struct {
	FromCache    int      // applied without a network call
	Fetched      int      // resolved by a live lookup
	Failed       int      // lookups that failed or returned no level
	Unresolvable int      // empty normalized code, never attempted
	Pending      []string // ids still without a level, in selection order
	Errors       []error  // per-record lookup errors, non-fatal
}

type fetchItem struct {
	course *domain.Course
	code   string
}

// Resolve enriches the selected courses in place. Cached results are applied
// before any lookup is dispatched; the remainder fan out through at most
// Workers concurrent lookups. Successful lookups write through to entries
// immediately — a later call in the same session benefits even if the final
// Save never happens — and the trimmed mapping is persisted at the end.
//
// Courses whose normalized code is empty are unresolvable: their level stays
// empty and their detail URL falls back to the raw specialty text. No lookup
// failure aborts the run; courses that end without a level are listed in
// Summary.Pending so the operator can retry them.
func (s *Scheduler) Resolve(
	ctx context.Context,
	batch *domain.Batch,
	selected []string,
	entries map[string]levelcache.Entry,
) (Summary, error) {
	var sum Summary
	if s.Client == nil {
		return sum, ErrEndpointUnconfigured
	}
	if entries == nil {
		entries = map[string]levelcache.Entry{}
	}

	var toFetch []fetchItem
	for _, id := range selected {
		c := batch.ByID(id)
		if c == nil {
			continue
		}

		code := domain.NormalizeCode(c.SpecialtyCode)
		if code == "" {
			if c.DetailURL == "" {
				c.DetailURL = domain.DetailURL(c.SpecialtyCode)
			}
			sum.Unresolvable++
			continue
		}

		if c.Resolved() {
			sum.FromCache++
			continue
		}
		if e, ok := entries[code]; ok && e.Level != "" {
			c.Level = e.Level
			if c.DetailURL == "" && e.DetailURL != "" {
				c.DetailURL = e.DetailURL
			}
			sum.FromCache++
			continue
		}

		toFetch = append(toFetch, fetchItem{course: c, code: code})
	}

	// Nothing left to fetch is a success, not a no-op error.
	if len(toFetch) > 0 {
		sum.Errors = s.fetchAll(ctx, toFetch, entries)
		sum.Failed = len(sum.Errors)
		for _, it := range toFetch {
			if it.course.Resolved() {
				sum.Fetched++
			}
		}
		if s.Cache != nil {
			s.Cache.Save(entries)
		}
	}

	for _, id := range selected {
		if c := batch.ByID(id); c != nil && !c.Resolved() {
			sum.Pending = append(sum.Pending, id)
		}
	}
	return sum, nil
}

// fetchAll runs the live lookups under the concurrency cap. The entries map
// is the only shared resource; it is guarded by one mutex since writes are
// tiny. Two selected courses normalizing to the same code both write the
// same key — later completion wins, which is fine for a convergent value.
func (s *Scheduler) fetchAll(ctx context.Context, items []fetchItem, entries map[string]levelcache.Entry) []error {
	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	nowFn := s.now
	if nowFn == nil {
		nowFn = time.Now
	}

	var mu sync.Mutex
	return concurrency.ForEach(ctx, items, concurrency.Options{MaxWorkers: workers},
		func(ctx context.Context, _ int, it fetchItem) error {
			res, err := s.Client.SpecialtyLevel(ctx, it.code)
			if err == nil && res.Level == "" {
				err = fmt.Errorf("lookup for %s returned no level", it.code)
			}
			if err != nil {
				// per-record failure: stay unresolved, keep the raw-text URL
				if it.course.DetailURL == "" {
					it.course.DetailURL = domain.DetailURL(it.course.SpecialtyCode)
				}
				return fmt.Errorf("specialty %s: %w", it.code, err)
			}

			detail := res.DetailURL
			if detail == "" {
				detail = domain.DetailURL(it.code)
			}

			mu.Lock()
			entries[it.code] = levelcache.Entry{
				Level:     res.Level,
				DetailURL: detail,
				StoredAt:  nowFn(),
			}
			mu.Unlock()

			// each item holds its own course pointer, so this write is unshared
			it.course.Level = res.Level
			if it.course.DetailURL == "" {
				it.course.DetailURL = detail
			}
			return nil
		})
}
