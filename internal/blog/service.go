package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/revalidate"
	"portfolio-backend/internal/utils"
)

var (
	ErrNotFound    = errors.New("blog post not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

type Service struct {
	repo     Repository
	notify   *revalidate.Notifier
	log      *slog.Logger
	location *time.Location
}

func NewService(repo Repository, notify *revalidate.Notifier, log *slog.Logger, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		notify:   notify,
		log:      log,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Post, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	if taken, err := s.slugTaken(ctx, slug, ""); err != nil {
		return Post{}, err
	} else if taken {
		return Post{}, ErrSlugExists
	}

	published := false
	if req.Published != nil {
		published = *req.Published
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}

	content := strings.TrimSpace(req.Content)
	now := time.Now().In(s.location)
	item := Post{
		ID:         primitive.NewObjectID().Hex(),
		Slug:       slug,
		Title:      strings.TrimSpace(req.Title),
		Excerpt:    strings.TrimSpace(req.Excerpt),
		Content:    content,
		CoverImage: strings.TrimSpace(req.CoverImage),
		Tags:       trimAll(req.Tags),
		Published:  published,
		Featured:   featured,
		ReadTime:   utils.ReadTime(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if published {
		item.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
	}

	if s.notify != nil {
		s.notify.Blog(ctx, item.Slug)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Post, error) {
	id = strings.TrimSpace(id)
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}

	if taken, err := s.slugTaken(ctx, slug, id); err != nil {
		return Post{}, err
	} else if taken {
		return Post{}, ErrSlugExists
	}

	published := false
	if req.Published != nil {
		published = *req.Published
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}

	content := strings.TrimSpace(req.Content)
	now := time.Now().In(s.location)
	set := bson.M{
		"slug":       slug,
		"title":      strings.TrimSpace(req.Title),
		"excerpt":    strings.TrimSpace(req.Excerpt),
		"content":    content,
		"tags":       trimAll(req.Tags),
		"published":  published,
		"featured":   featured,
		"read_time":  utils.ReadTime(content),
		"updated_at": now,
	}
	unset := bson.M{}
	if cover := strings.TrimSpace(req.CoverImage); cover == "" {
		unset["cover_image"] = ""
	} else {
		set["cover_image"] = cover
	}
	if published && existing.PublishedAt == nil {
		set["published_at"] = now
	}

	updated, err := s.repo.Update(ctx, id, set, unset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
	}

	if s.notify != nil {
		slugs := []string{updated.Slug}
		if existing.Slug != updated.Slug {
			slugs = append(slugs, existing.Slug)
		}
		s.notify.Blog(ctx, slugs...)
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
		s.notify.Blog(ctx, existing.Slug)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return item, nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return item, nil
}

func (s *Service) ListAll(ctx context.Context, limit, offset int64) ([]Post, error) {
	return s.repo.ListAll(ctx, limit, offset)
}

func (s *Service) ListPublished(ctx context.Context) ([]Post, error) {
	return s.repo.ListPublished(ctx)
}

// IncrementViews is fire and forget: a missing slug is a no-op and store
// errors are logged rather than returned, so no read ever fails because its
// attached counter write did.
func (s *Service) IncrementViews(ctx context.Context, slug string) {
	matched, err := s.repo.IncrementViews(ctx, strings.TrimSpace(slug))
	if err != nil {
		s.log.Warn("blog views: increment failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		return
	}
	if matched == 0 {
		s.log.Debug("blog views: no published post for slug", slog.String("slug", slug))
	}
}

func (s *Service) slugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	n, err := s.repo.CountBySlug(ctx, slug, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
