package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/revalidate"
	"portfolio-backend/internal/utils"
)

var (
	ErrNotFound    = errors.New("project not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

type Service struct {
	repo     Repository
	notify   *revalidate.Notifier
	location *time.Location
}

func NewService(repo Repository, notify *revalidate.Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		notify:   notify,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Project, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	// Courtesy pre-check for a friendly conflict message; the unique index
	// on slug remains the actual guarantee.
	if taken, err := s.slugTaken(ctx, slug, ""); err != nil {
		return Project{}, err
	} else if taken {
		return Project{}, ErrSlugExists
	}

	published := false
	if req.Published != nil {
		published = *req.Published
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}
	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	now := time.Now().In(s.location)
	item := Project{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CoverImage:  strings.TrimSpace(req.CoverImage),
		Tags:        trimAll(req.Tags),
		DemoURL:     strings.TrimSpace(req.DemoURL),
		RepoURL:     strings.TrimSpace(req.RepoURL),
		Content:     strings.TrimSpace(req.Content),
		Published:   published,
		Featured:    featured,
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if published {
		item.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Project{}, ErrSlugExists
		}
		return Project{}, err
	}

	if s.notify != nil {
		s.notify.Projects(ctx, item.Slug)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Project, error) {
	id = strings.TrimSpace(id)
	slug := strings.TrimSpace(req.Slug)
	// Slugs are never re-derived on edit; the caller must send one.
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}

	if taken, err := s.slugTaken(ctx, slug, id); err != nil {
		return Project{}, err
	} else if taken {
		return Project{}, ErrSlugExists
	}

	published := false
	if req.Published != nil {
		published = *req.Published
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}
	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	now := time.Now().In(s.location)
	set := bson.M{
		"slug":        slug,
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
		"cover_image": strings.TrimSpace(req.CoverImage),
		"tags":        trimAll(req.Tags),
		"published":   published,
		"featured":    featured,
		"order":       order,
		"updated_at":  now,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "demo_url", req.DemoURL)
	setOrUnset(set, unset, "repo_url", req.RepoURL)
	setOrUnset(set, unset, "content", req.Content)

	// published_at marks the first publication, so it is only stamped on the
	// false->true transition and survives unpublishing.
	if published && existing.PublishedAt == nil {
		set["published_at"] = now
	}

	updated, err := s.repo.Update(ctx, id, set, unset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Project{}, ErrSlugExists
		}
		return Project{}, err
	}

	if s.notify != nil {
		slugs := []string{updated.Slug}
		if existing.Slug != updated.Slug {
			slugs = append(slugs, existing.Slug)
		}
		s.notify.Projects(ctx, slugs...)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	if s.notify != nil {
		s.notify.Projects(ctx, existing.Slug)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Project, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return item, nil
}

// GetPublishedBySlug is the public read path. Unpublished records stay
// invisible here even on an exact slug match.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return item, nil
}

func (s *Service) ListAll(ctx context.Context, limit, offset int64) ([]Project, error) {
	return s.repo.ListAll(ctx, limit, offset)
}

func (s *Service) ListPublished(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	return s.repo.ListPublished(ctx, filter)
}

func (s *Service) slugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	n, err := s.repo.CountBySlug(ctx, slug, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func setOrUnset(set, unset bson.M, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		unset[field] = ""
		return
	}
	set[field] = value
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
