package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"cursos-madrid/internal/config"
	"cursos-madrid/internal/enrich"
	"cursos-madrid/internal/export"
	"cursos-madrid/internal/feed"
	"cursos-madrid/internal/ingest"
	"cursos-madrid/internal/levelcache"
	"cursos-madrid/internal/providers/sepe"
)

func main() {
	var (
		inPath  = flag.String("in", "cursos_madrid.csv", "course csv to enrich")
		outPath = flag.String("out", "", "output path (default: overwrite -in)")
		all     = flag.Bool("all", false, "select every course, not only pending ones")
		workers = flag.Int("workers", 0, "concurrent lookups (default: LEVEL_LOOKUP_WORKERS)")
		timeout = flag.Duration("timeout", 30*time.Minute, "overall timeout")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if *outPath == "" {
		*outPath = *inPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	data, kind, err := feed.Fetch(ctx, nil, *inPath, ingest.KindUnknown)
	if err != nil {
		log.Fatal(err)
	}

	store := levelcache.NewStore(cfg.CachePath)
	store.TTL = time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
	store.MaxEntries = cfg.CacheMaxEntries

	// Ingest hydrates from the cache, so anything resolved in an earlier
	// session is already filled before we decide what to look up.
	batch, err := ingest.New(store).Ingest(data, kind)
	if err != nil {
		log.Fatal(err)
	}

	selected := batch.PendingIDs()
	if *all {
		selected = selected[:0]
		for i := range batch.Courses {
			selected = append(selected, batch.Courses[i].ID)
		}
	}
	if len(selected) == 0 {
		log.Printf("nothing to enrich: all %d courses carry a level", len(batch.Courses))
		if err := export.WriteCoursesCSVFile(*outPath, batch.Courses); err != nil {
			log.Fatal(err)
		}
		return
	}

	if cfg.LookupBaseURL == "" {
		log.Fatal("no lookup endpoint configured: set LEVEL_LOOKUP_URL")
	}

	nWorkers := *workers
	if nWorkers <= 0 {
		nWorkers = cfg.LookupWorkers
	}

	sched := &enrich.Scheduler{
		Client:  sepe.New(cfg.LookupBaseURL),
		Cache:   store,
		Workers: nWorkers,
	}

	sum, err := sched.Resolve(ctx, batch, selected, store.Load())
	if err != nil {
		if errors.Is(err, enrich.ErrEndpointUnconfigured) {
			log.Fatal("no lookup endpoint configured: set LEVEL_LOOKUP_URL")
		}
		log.Fatal(err)
	}

	for _, lerr := range sum.Errors {
		log.Printf("WARN: %v", lerr)
	}
	log.Printf("enriched %d courses: cache=%d fetched=%d failed=%d unresolvable=%d pending=%d",
		len(selected), sum.FromCache, sum.Fetched, sum.Failed, sum.Unresolvable, len(sum.Pending))

	if err := export.WriteCoursesCSVFile(*outPath, batch.Courses); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d courses to %s", len(batch.Courses), *outPath)
}
