// Package revalidate marks previously rendered public views as stale after a
// successful mutation. It purges the cached payload keys for the affected
// routes and, when a frontend revalidation endpoint is configured, pings it
// so statically rendered pages regenerate. Both actions are best effort: the
// underlying write has already succeeded, so failures are logged and never
// surfaced to the caller.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/cache"
)

// Cache keys for the public read endpoints. Handlers that populate the cache
// and the invalidation sets below must agree on these.
const (
	KeyProjectsPublished = "projects:published"
	KeyProjectsFeatured  = "projects:featured"
	KeyBlogPublished     = "blog:published"
	KeyExperiences       = "experiences:all"
	KeySettings          = "settings:default"
)

func KeyProjectSlug(slug string) string   { return "projects:slug:" + slug }
func KeyBlogSlug(slug string) string      { return "blog:slug:" + slug }
func KeyExperienceType(typ string) string { return "experiences:type:" + typ }

type Notifier struct {
	cache   cache.Cache
	log     *slog.Logger
	pingURL string
	secret  string
	client  *http.Client
}

func New(c cache.Cache, log *slog.Logger, pingURL, secret string) *Notifier {
	return &Notifier{
		cache:   c,
		log:     log,
		pingURL: strings.TrimSpace(pingURL),
		secret:  secret,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Projects invalidates every view that can include a project. Detail slugs of
// both the old and new slug are passed on rename so neither stays stale.
func (n *Notifier) Projects(ctx context.Context, slugs ...string) {
	keys := []string{KeyProjectsPublished, KeyProjectsFeatured}
	paths := []string{"/projects", "/admin/projects"}
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		keys = append(keys, KeyProjectSlug(slug))
		paths = append(paths, "/projects/"+slug)
	}
	n.invalidate(ctx, keys, paths)
}

func (n *Notifier) Blog(ctx context.Context, slugs ...string) {
	keys := []string{KeyBlogPublished}
	paths := []string{"/blog", "/admin/blog"}
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		keys = append(keys, KeyBlogSlug(slug))
		paths = append(paths, "/blog/"+slug)
	}
	n.invalidate(ctx, keys, paths)
}

func (n *Notifier) Experiences(ctx context.Context, types ...string) {
	keys := []string{KeyExperiences}
	for _, typ := range types {
		if typ == "" {
			continue
		}
		keys = append(keys, KeyExperienceType(typ))
	}
	n.invalidate(ctx, keys, []string{"/about", "/admin/experience"})
}

// Settings feeds every public page, so its invalidation set covers them all.
func (n *Notifier) Settings(ctx context.Context) {
	keys := []string{
		KeySettings,
		KeyProjectsPublished,
		KeyProjectsFeatured,
		KeyBlogPublished,
		KeyExperiences,
	}
	n.invalidate(ctx, keys, []string{"/", "/about", "/projects", "/blog", "/admin/settings"})
}

func (n *Notifier) invalidate(ctx context.Context, keys, paths []string) {
	if err := n.cache.Delete(ctx, keys...); err != nil {
		n.log.Warn("revalidate: cache purge failed", slog.String("error", err.Error()))
	}
	if n.pingURL == "" {
		return
	}
	if err := n.ping(ctx, paths); err != nil {
		n.log.Warn("revalidate: frontend ping failed", slog.String("error", err.Error()))
	}
}

type pingRequest struct {
	Paths []string `json:"paths"`
}

func (n *Notifier) ping(ctx context.Context, paths []string) error {
	raw, err := json.Marshal(pingRequest{Paths: paths})
	if err != nil {
		return fmt.Errorf("revalidate marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.pingURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("revalidate create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("X-Revalidate-Secret", n.secret)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("revalidate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("revalidate ping failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
