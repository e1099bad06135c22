package experience

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/revalidate"
)

var (
	ErrNotFound    = errors.New("experience not found")
	ErrInvalidDate = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

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

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Experience, error) {
	start, end, current, err := s.resolveDates(req)
	if err != nil {
		return Experience{}, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	now := time.Now().In(s.location)
	item := Experience{
		ID:           primitive.NewObjectID().Hex(),
		Type:         req.Type,
		Title:        strings.TrimSpace(req.Title),
		Organization: strings.TrimSpace(req.Organization),
		Location:     strings.TrimSpace(req.Location),
		Description:  strings.TrimSpace(req.Description),
		Skills:       trimAll(req.Skills),
		StartDate:    start,
		EndDate:      end,
		Current:      current,
		Order:        order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Experience{}, err
	}

	if s.notify != nil {
		s.notify.Experiences(ctx, item.Type)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Experience, error) {
	id = strings.TrimSpace(id)
	start, end, current, err := s.resolveDates(req)
	if err != nil {
		return Experience{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Experience{}, ErrNotFound
		}
		return Experience{}, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	now := time.Now().In(s.location)
	set := bson.M{
		"type":         req.Type,
		"title":        strings.TrimSpace(req.Title),
		"organization": strings.TrimSpace(req.Organization),
		"skills":       trimAll(req.Skills),
		"start_date":   start,
		"current":      current,
		"order":        order,
		"updated_at":   now,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "location", req.Location)
	setOrUnset(set, unset, "description", req.Description)
	if end != nil {
		set["end_date"] = *end
	} else {
		unset["end_date"] = ""
	}

	updated, err := s.repo.Update(ctx, id, set, unset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Experience{}, ErrNotFound
		}
		return Experience{}, err
	}

	if s.notify != nil {
		types := []string{updated.Type}
		if existing.Type != updated.Type {
			types = append(types, existing.Type)
		}
		s.notify.Experiences(ctx, types...)
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
		s.notify.Experiences(ctx, existing.Type)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Experience, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Experience{}, ErrNotFound
		}
		return Experience{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Experience, error) {
	filter.Type = strings.TrimSpace(filter.Type)
	return s.repo.List(ctx, filter)
}

// resolveDates parses the wire dates and applies the current/end-date rule:
// a role marked current stores no end date, whatever the form submitted.
func (s *Service) resolveDates(req UpsertRequest) (time.Time, *time.Time, bool, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.StartDate), s.location)
	if err != nil {
		return time.Time{}, nil, false, ErrInvalidDate
	}

	current := false
	if req.Current != nil {
		current = *req.Current
	}

	var end *time.Time
	if raw := strings.TrimSpace(req.EndDate); raw != "" && !current {
		parsed, err := time.ParseInLocation(dateLayout, raw, s.location)
		if err != nil {
			return time.Time{}, nil, false, ErrInvalidDate
		}
		end = &parsed
	}

	return start, end, current, nil
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
