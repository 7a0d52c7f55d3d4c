// Package feed obtains the raw course-listing payload, from the portal over
// HTTP or from a local file, and settles which ingestion format applies.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cursos-madrid/internal/httpx"
	"cursos-madrid/internal/ingest"
)

// Fetch retrieves the payload at location. A declared kind wins; otherwise
// the kind is inferred from the location's extension, and an extension no
// ingestor understands is a SourceFormatError. Remote fetches are
// cache-busted so every explicit load sees a fresh export.
func Fetch(ctx context.Context, client *http.Client, location string, declared ingest.SourceKind) ([]byte, ingest.SourceKind, error) {
	kind := declared
	if kind == ingest.KindUnknown {
		inferred, ok := inferKind(location)
		if !ok {
			return nil, ingest.KindUnknown, &ingest.SourceFormatError{
				Format: strings.TrimPrefix(extensionOf(location), "."),
				Reason: "cannot infer source kind from location",
			}
		}
		kind = inferred
	}

	if isRemote(location) {
		data, err := fetchRemote(ctx, client, location)
		if err != nil {
			return nil, kind, fmt.Errorf("feed: fetch %s: %w", location, err)
		}
		return data, kind, nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, kind, fmt.Errorf("feed: read %s: %w", location, err)
	}
	return data, kind, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func extensionOf(location string) string {
	if isRemote(location) {
		if u, err := url.Parse(location); err == nil {
			return path.Ext(u.Path)
		}
	}
	return filepath.Ext(location)
}

func inferKind(location string) (ingest.SourceKind, bool) {
	return ingest.KindForExtension(extensionOf(location))
}

func fetchRemote(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return httpx.GetBytes(ctx, client, cacheBust(location, time.Now()), httpx.DefaultRetryConfig())
}

// cacheBust appends a throwaway timestamp parameter so intermediaries cannot
// serve a stale export.
func cacheBust(location string, now time.Time) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	q := u.Query()
	q.Set("_", fmt.Sprintf("%d", now.UnixMilli()))
	u.RawQuery = q.Encode()
	return u.String()
}
