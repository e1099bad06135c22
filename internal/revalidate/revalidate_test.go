package revalidate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"
)

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("redis down")
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProjectsPurgesListAndSlugKeys(t *testing.T) {
	store := &recordingCache{}
	n := New(store, discardLogger(), "", "")

	n.Projects(context.Background(), "old-slug", "new-slug")

	want := []string{
		KeyProjectsPublished,
		KeyProjectsFeatured,
		KeyProjectSlug("old-slug"),
		KeyProjectSlug("new-slug"),
	}
	got := append([]string(nil), store.deleted...)
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("deleted = %v, want %v", store.deleted, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("deleted = %v, want %v", store.deleted, want)
		}
	}
}

func TestExperiencesSkipsEmptyType(t *testing.T) {
	store := &recordingCache{}
	n := New(store, discardLogger(), "", "")

	n.Experiences(context.Background(), "")
	if len(store.deleted) != 1 || store.deleted[0] != KeyExperiences {
		t.Fatalf("deleted = %v", store.deleted)
	}
}

func TestCacheFailureIsNotSurfaced(t *testing.T) {
	store := &recordingCache{fail: true}
	n := New(store, discardLogger(), "", "")

	// Must not panic or surface the error; the mutation already succeeded.
	n.Blog(context.Background(), "some-post")
	n.Settings(context.Background())
}

func TestPingSendsPathsAndSecret(t *testing.T) {
	var (
		mu     sync.Mutex
		gotKey string
		paths  []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotKey = r.Header.Get("X-Revalidate-Secret")
		var body pingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode ping body: %v", err)
		}
		paths = body.Paths
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(&recordingCache{}, discardLogger(), srv.URL, "reval-secret")
	n.Blog(context.Background(), "hello-world")

	mu.Lock()
	defer mu.Unlock()
	if gotKey != "reval-secret" {
		t.Fatalf("secret header = %q", gotKey)
	}
	found := false
	for _, p := range paths {
		if p == "/blog/hello-world" {
			found = true
		}
	}
	if !found {
		t.Fatalf("paths = %v, want /blog/hello-world present", paths)
	}
}

func TestPingFailureIsNotSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &recordingCache{}
	n := New(store, discardLogger(), srv.URL, "")
	n.Projects(context.Background(), "demo")

	// Cache purge still happened even though the ping failed.
	if len(store.deleted) == 0 {
		t.Fatal("cache purge skipped on ping failure")
	}
}
