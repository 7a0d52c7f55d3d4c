package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cursos-madrid/internal/ingest"
)

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cursos.csv")
	if err := os.WriteFile(p, []byte("codigo,curso\n1,Test\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, kind, err := Fetch(context.Background(), nil, p, ingest.KindUnknown)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if kind != ingest.KindDelimited {
		t.Errorf("kind = %v, want KindDelimited", kind)
	}
	if !strings.HasPrefix(string(data), "codigo,curso") {
		t.Errorf("data = %q, want file contents", data)
	}
}

func TestFetchDeclaredKindWins(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cursos.dat")
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, kind, err := Fetch(context.Background(), nil, p, ingest.KindRecords)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if kind != ingest.KindRecords {
		t.Errorf("kind = %v, want the declared KindRecords", kind)
	}
}

func TestFetchUnsupportedExtension(t *testing.T) {
	_, _, err := Fetch(context.Background(), nil, "cursos.pdf", ingest.KindUnknown)

	var sfe *ingest.SourceFormatError
	if !errors.As(err, &sfe) {
		t.Fatalf("Fetch() error = %v, want *ingest.SourceFormatError", err)
	}
	if sfe.Format != "pdf" {
		t.Errorf("Format = %q, want pdf", sfe.Format)
	}
}

func TestFetchRemoteCacheBusts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"codigo":"1"}]`))
	}))
	defer srv.Close()

	data, kind, err := Fetch(context.Background(), srv.Client(), srv.URL+"/export/cursos.json", ingest.KindUnknown)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if kind != ingest.KindRecords {
		t.Errorf("kind = %v, want KindRecords", kind)
	}
	if len(data) == 0 {
		t.Error("empty payload from remote fetch")
	}
	if !strings.Contains(gotQuery, "_=") {
		t.Errorf("query = %q, want a cache-busting _ parameter", gotQuery)
	}
}

func TestCacheBustPreservesExistingQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := cacheBust("https://example.com/export?formato=csv", now)
	if !strings.Contains(got, "formato=csv") {
		t.Errorf("cacheBust() = %q, lost the original query", got)
	}
	if !strings.Contains(got, "_=") {
		t.Errorf("cacheBust() = %q, missing the bust parameter", got)
	}
}
