package projects

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/revalidate"
)

// fakeRepo is an in-memory Repository that mimics the store's unique slug
// index: writes fail with a duplicate-key error when another record holds the
// slug. With precheckBlind set, CountBySlug reports zero to simulate the race
// window where two writers both pass the pre-check.
type fakeRepo struct {
	mu            sync.Mutex
	items         map[string]Project
	precheckBlind bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Project)}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (f *fakeRepo) Create(ctx context.Context, item Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Slug == item.Slug {
			return duplicateKeyErr()
		}
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set, unset bson.M) (Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		for otherID, other := range f.items {
			if otherID != id && other.Slug == slug {
				return Project{}, duplicateKeyErr()
			}
		}
		item.Slug = slug
	}
	if v, ok := set["title"].(string); ok {
		item.Title = v
	}
	if v, ok := set["description"].(string); ok {
		item.Description = v
	}
	if v, ok := set["cover_image"].(string); ok {
		item.CoverImage = v
	}
	if v, ok := set["tags"].([]string); ok {
		item.Tags = v
	}
	if v, ok := set["published"].(bool); ok {
		item.Published = v
	}
	if v, ok := set["featured"].(bool); ok {
		item.Featured = v
	}
	if v, ok := set["order"].(int); ok {
		item.Order = v
	}
	if v, ok := set["updated_at"].(time.Time); ok {
		item.UpdatedAt = v
	}
	if v, ok := set["published_at"].(time.Time); ok {
		item.PublishedAt = &v
	}
	if v, ok := set["demo_url"].(string); ok {
		item.DemoURL = v
	}
	if v, ok := set["repo_url"].(string); ok {
		item.RepoURL = v
	}
	if v, ok := set["content"].(string); ok {
		item.Content = v
	}
	if _, ok := unset["demo_url"]; ok {
		item.DemoURL = ""
	}
	if _, ok := unset["repo_url"]; ok {
		item.RepoURL = ""
	}
	if _, ok := unset["content"]; ok {
		item.Content = ""
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.Slug == slug && item.Published {
			return item, nil
		}
	}
	return Project{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) CountBySlug(ctx context.Context, slug, excludeID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.precheckBlind {
		return 0, nil
	}
	var n int64
	for id, item := range f.items {
		if item.Slug == slug && id != excludeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListAll(ctx context.Context, limit, offset int64) ([]Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Project, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) ListPublished(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Project, 0)
	for _, item := range f.items {
		if !item.Published {
			continue
		}
		if filter.FeaturedOnly && !item.Featured {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func newTestService(repo Repository) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	notify := revalidate.New(cache.NewNoop(), log, "", "")
	return NewService(repo, notify, time.UTC)
}

func validRequest(title string) UpsertRequest {
	return UpsertRequest{
		Title:       title,
		Description: "A description long enough to pass validation.",
		CoverImage:  "https://example.com/cover.png",
		Tags:        []string{"go", "web"},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc := newTestService(newFakeRepo())

	item, err := svc.Create(context.Background(), validRequest("My New Project"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.Slug != "my-new-project" {
		t.Fatalf("derived slug = %q, want my-new-project", item.Slug)
	}
	if item.PublishedAt != nil {
		t.Fatalf("unpublished create should not set published_at")
	}
}

func TestCreateSlugConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, validRequest("My Project"))
	if err != nil {
		t.Fatalf("first create error: %v", err)
	}

	// Different title, explicit identical slug.
	req := validRequest("Another Title")
	req.Slug = "my-project"
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("second create error = %v, want ErrSlugExists", err)
	}

	// First record must be untouched.
	stored, err := svc.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if stored.Title != "My Project" {
		t.Fatalf("first record mutated: title = %q", stored.Title)
	}
}

func TestCreateConflictWhenConstraintFiresAfterPrecheck(t *testing.T) {
	repo := newFakeRepo()
	repo.precheckBlind = true
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validRequest("My Project")); err != nil {
		t.Fatalf("first create error: %v", err)
	}
	if _, err := svc.Create(ctx, validRequest("My Project")); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("constraint violation mapped to %v, want ErrSlugExists", err)
	}
}

func TestConcurrentCreateSameSlug(t *testing.T) {
	repo := newFakeRepo()
	repo.precheckBlind = true
	svc := newTestService(repo)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validRequest("My Project"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlugExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("successes=%d conflicts=%d, want exactly one of each", successes, conflicts)
	}
}

func TestUpdateKeepsOwnSlug(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	item, err := svc.Create(ctx, validRequest("My Project"))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	req := validRequest("My Project, Renamed")
	req.Slug = item.Slug
	updated, err := svc.Update(ctx, item.ID, req)
	if err != nil {
		t.Fatalf("self-slug update error: %v", err)
	}
	if updated.Title != "My Project, Renamed" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
}

func TestUpdateRequiresSlug(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	item, err := svc.Create(ctx, validRequest("My Project"))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	req := validRequest("Edited Title")
	if _, err := svc.Update(ctx, item.ID, req); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("update without slug = %v, want ErrInvalidSlug", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())
	req := validRequest("Anything")
	req.Slug = "anything"
	if _, err := svc.Update(context.Background(), "missing", req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing id = %v, want ErrNotFound", err)
	}
}

func TestPublishTimestampSetOnlyOnTransition(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	item, err := svc.Create(ctx, validRequest("My Project"))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	req := validRequest("My Project")
	req.Slug = item.Slug
	req.Published = boolPtr(true)
	published, err := svc.Update(ctx, item.ID, req)
	if err != nil {
		t.Fatalf("publish update error: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatalf("publishing did not set published_at")
	}
	firstStamp := *published.PublishedAt

	time.Sleep(5 * time.Millisecond)
	again, err := svc.Update(ctx, item.ID, req)
	if err != nil {
		t.Fatalf("second publish update error: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstStamp) {
		t.Fatalf("published_at changed on re-publish: %v != %v", again.PublishedAt, firstStamp)
	}

	// Unpublishing keeps the first-published stamp.
	req.Published = boolPtr(false)
	unpublished, err := svc.Update(ctx, item.ID, req)
	if err != nil {
		t.Fatalf("unpublish update error: %v", err)
	}
	if unpublished.PublishedAt == nil || !unpublished.PublishedAt.Equal(firstStamp) {
		t.Fatalf("published_at lost on unpublish")
	}
}

func TestOptionalFieldsClearedWhenEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	req := validRequest("My Project")
	req.DemoURL = "https://example.com/demo"
	req.RepoURL = "https://github.com/me/project"
	item, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	edit := validRequest("My Project")
	edit.Slug = item.Slug
	updated, err := svc.Update(ctx, item.ID, edit)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.DemoURL != "" || updated.RepoURL != "" {
		t.Fatalf("empty optional fields not cleared: demo=%q repo=%q", updated.DemoURL, updated.RepoURL)
	}
}

func TestDeleteMissingIsError(t *testing.T) {
	svc := newTestService(newFakeRepo())
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing id = %v, want ErrNotFound", err)
	}
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	req := validRequest("Draft Project")
	item, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.GetPublishedBySlug(ctx, item.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft visible on public path: %v", err)
	}

	edit := validRequest("Draft Project")
	edit.Slug = item.Slug
	edit.Published = boolPtr(true)
	if _, err := svc.Update(ctx, item.ID, edit); err != nil {
		t.Fatalf("publish error: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, item.Slug); err != nil {
		t.Fatalf("published record hidden on public path: %v", err)
	}
}
