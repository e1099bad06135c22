package settings

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"portfolio-backend/internal/revalidate"
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

// Get returns the site settings, creating the placeholder record on first
// access so the public site always has something to render.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.GetOrInit(ctx, s.defaults())
}

func (s *Service) Update(ctx context.Context, req UpsertRequest) (Settings, error) {
	now := time.Now().In(s.location)
	set := bson.M{
		"name":       strings.TrimSpace(req.Name),
		"tagline":    strings.TrimSpace(req.Tagline),
		"bio":        strings.TrimSpace(req.Bio),
		"tech_stack": trimAll(req.TechStack),
		"updated_at": now,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "email", req.Email)
	setOrUnset(set, unset, "github", req.GitHub)
	setOrUnset(set, unset, "linkedin", req.LinkedIn)
	setOrUnset(set, unset, "twitter", req.Twitter)
	setOrUnset(set, unset, "location", req.Location)
	setOrUnset(set, unset, "profile_image", req.ProfileImage)

	updated, err := s.repo.Update(ctx, set, unset)
	if err != nil {
		return Settings{}, err
	}

	if s.notify != nil {
		s.notify.Settings(ctx)
	}
	return updated, nil
}

func (s *Service) defaults() Settings {
	return Settings{
		ID:      SingletonID,
		Name:    "Your Name",
		Tagline: "Welcome to my portfolio! Update this text in the Settings page.",
		Bio:     "Welcome to my portfolio! Update this text in the Settings page.",
		TechStack: []string{
			"Go", "TypeScript", "React", "PostgreSQL",
		},
		UpdatedAt: time.Now().In(s.location),
	}
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
