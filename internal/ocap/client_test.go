package ocap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/operations", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("newer") != "2025-01-01" || q.Get("tag") != "TvT" {
			http.Error(w, "bad query: "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "world_name": "altis", "mission_name": "Dawn", "mission_duration": 3600, "filename": "a.json", "date": "2025-06-01", "tag": "TvT"},
			{"id": 2, "world_name": "tanoa", "mission_name": "Dusk", "mission_duration": 1800.5, "filename": "b.json", "date": "2025-06-03", "tag": "TvT"},
			{"id": 3, "world_name": "altis", "mission_name": "Noon", "mission_duration": 60, "filename": "c.json", "date": "2025-06-01", "tag": "TvT"}
		]`))
	})
	mux.HandleFunc("/data/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/a.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"replay": true}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListOperations(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/")

	ops, err := c.ListOperations(context.Background(), Filter{
		Tag:   "TvT",
		Newer: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListOperations: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	if ops[0].Filename != "b.json" || ops[1].Filename != "c.json" || ops[2].Filename != "a.json" {
		t.Errorf("unexpected order: %s %s %s", ops[0].Filename, ops[1].Filename, ops[2].Filename)
	}
	if ops[2].Duration() != time.Hour {
		t.Errorf("Duration: want 1h, got %s", ops[2].Duration())
	}
}

func TestListOperations_HTTPError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	if _, err := c.ListOperations(context.Background(), Filter{}); err == nil {
		t.Error("expected an error for a rejected query")
	}
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), "a.json", &buf)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != `{"replay": true}` {
		t.Errorf("unexpected body %q (%d bytes)", buf.String(), n)
	}
	if _, err := c.Download(context.Background(), "missing.json", &buf); err == nil {
		t.Error("expected an error for a missing file")
	}
}
