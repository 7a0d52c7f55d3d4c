package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"cursos-madrid/internal/categorize"
	"cursos-madrid/internal/config"
	"cursos-madrid/internal/export"
	"cursos-madrid/internal/feed"
	"cursos-madrid/internal/ingest"
	"cursos-madrid/internal/levelcache"
	"cursos-madrid/internal/sftpclient"
)

func main() {
	var (
		src        = flag.String("src", "", "feed location: URL or local path (default: COURSE_FEED_URL)")
		format     = flag.String("format", "auto", "source format: auto|csv|xlsx|json")
		outPath    = flag.String("out", "cursos_madrid.csv", "output csv path")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall timeout")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	location := *src
	if location == "" {
		location = cfg.FeedURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	declared := ingest.KindUnknown
	if *format != "auto" {
		k, ok := ingest.KindForExtension(*format)
		if !ok {
			log.Fatalf("unknown -format %q (want csv, xlsx or json)", *format)
		}
		declared = k
	}

	data, kind, err := feed.Fetch(ctx, nil, location, declared)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("fetched %d bytes from %s (format=%s)", len(data), location, kind)

	store := levelcache.NewStore(cfg.CachePath)
	store.TTL = time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
	store.MaxEntries = cfg.CacheMaxEntries

	batch, err := ingest.New(store).Ingest(data, kind)
	if err != nil {
		log.Fatal(err)
	}

	byCategory := map[string]int{}
	resolved := 0
	for i := range batch.Courses {
		byCategory[categorize.Category(batch.Courses[i].Title)]++
		if batch.Courses[i].Resolved() {
			resolved++
		}
	}
	for _, cat := range sortedKeys(byCategory) {
		log.Printf("  %-35s %d", cat, byCategory[cat])
	}
	log.Printf("loaded %d courses (%d with level from cache, %d pending)",
		len(batch.Courses), resolved, len(batch.Courses)-resolved)

	if err := export.WriteCoursesCSVFile(*outPath, batch.Courses); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d courses to %s", len(batch.Courses), *outPath)

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(*outPath)
		if err := sftpclient.UploadFile(upCtx, upCfg, *outPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
