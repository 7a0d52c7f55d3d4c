package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Feed
	FeedURL string

	// Level lookup
	LookupBaseURL string // empty = enrichment unconfigured
	LookupWorkers int

	// Cache
	CachePath       string
	CacheTTLDays    int
	CacheMaxEntries int

	// SFTP delivery
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		FeedURL: getenv("COURSE_FEED_URL", "https://oficinaempleo.comunidad.madrid/BuscadorCursosPublico/export/cursos.xlsx"),

		LookupBaseURL: os.Getenv("LEVEL_LOOKUP_URL"),
		LookupWorkers: getenvInt("LEVEL_LOOKUP_WORKERS", 4),

		CachePath:       getenv("LEVEL_CACHE_PATH", "level_cache.json"),
		CacheTTLDays:    getenvInt("LEVEL_CACHE_TTL_DAYS", 180),
		CacheMaxEntries: getenvInt("LEVEL_CACHE_MAX_ENTRIES", 1000),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
