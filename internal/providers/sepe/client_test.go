package sepe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	c := New(srv.URL)
	c.HTTP = srv.Client()
	c.Retry.BaseDelay = time.Millisecond
	return c
}

func TestSpecialtyLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/especialidades/IFCD0210" {
			t.Errorf("request path = %q, want /especialidades/IFCD0210", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept header = %q, want application/json", accept)
		}
		w.Write([]byte(`{"codigo":"IFCD0210","nivel":"2","url":"https://example.com/ifcd0210"}`))
	}))
	defer srv.Close()

	res, err := testClient(srv).SpecialtyLevel(context.Background(), "IFCD0210")
	if err != nil {
		t.Fatalf("SpecialtyLevel() error = %v", err)
	}
	if res.Level != "2" {
		t.Errorf("Level = %q, want 2", res.Level)
	}
	if res.DetailURL != "https://example.com/ifcd0210" {
		t.Errorf("DetailURL = %q, want the response url", res.DetailURL)
	}
}

func TestSpecialtyLevelMissingNivel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"codigo":"IFCD0210"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).SpecialtyLevel(context.Background(), "IFCD0210")
	if err == nil {
		t.Fatal("expected an error for a response without nivel")
	}
}

func TestSpecialtyLevelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no existe", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv).SpecialtyLevel(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestSpecialtyLevelMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>mantenimiento</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv).SpecialtyLevel(context.Background(), "IFCD0210")
	if err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
}

func TestSpecialtyLevelEscapesCode(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"nivel":"1"}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv).SpecialtyLevel(context.Background(), "A/B C"); err != nil {
		t.Fatalf("SpecialtyLevel() error = %v", err)
	}
	if gotPath != "/especialidades/A%2FB%20C" {
		t.Errorf("escaped path = %q, want /especialidades/A%%2FB%%20C", gotPath)
	}
}
