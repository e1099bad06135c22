package admin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/validation"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]User)}
}

func (f *fakeUserRepo) Insert(ctx context.Context, user User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return false, nil
	}
	user.PasswordHash = hash
	user.UpdatedAt = at
	f.users[id] = user
	return true, nil
}

func newTestHandler(repo UserRepository) *Handler {
	manager := &auth.Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
		Issuer:     "portfolio-backend",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(repo, manager, validation.New(), log, "setup-key", false, time.UTC)
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string) User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now().UTC()
	user := User{
		ID:           "u1",
		Username:     username,
		PasswordHash: hash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Insert(context.Background(), user); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return user
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookies(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ada", "correct horse battery")
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login",
		strings.NewReader(`{"username":"ada","password":"correct horse battery"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	access := cookieByName(rec, middleware.AccessCookie)
	if access == nil || access.Value == "" || !access.HttpOnly {
		t.Fatalf("access cookie = %+v", access)
	}
	refresh := cookieByName(rec, RefreshCookie)
	if refresh == nil || refresh.Value == "" {
		t.Fatal("refresh cookie missing")
	}
	if refresh.Path != refreshCookiePath {
		t.Fatalf("refresh path = %q", refresh.Path)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ada", "correct horse battery")
	h := newTestHandler(repo)

	cases := map[string]string{
		"bad password": `{"username":"ada","password":"wrong"}`,
		"unknown user": `{"username":"ghost","password":"whatever"}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		if cookieByName(rec, middleware.AccessCookie) != nil {
			t.Fatalf("%s: cookie set on failed login", name)
		}
	}
}

func TestRegisterRequiresSetupKey(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/register",
		strings.NewReader(`{"username":"ada","password":"longenough","setup_key":"nope"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/register",
		strings.NewReader(`{"username":"ada","password":"longenough","setup_key":"setup-key"}`))
	rec = httptest.NewRecorder()
	h.Register(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cookieByName(rec, middleware.AccessCookie) == nil {
		t.Fatal("register did not start a session")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ada", "correct horse battery")
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/register",
		strings.NewReader(`{"username":"ada","password":"longenough","setup_key":"setup-key"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestHandler(repo)

	refresh, err := h.manager.NewRefreshToken(RoleAdmin)
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cookieByName(rec, middleware.AccessCookie) == nil {
		t.Fatal("refresh did not issue a new access cookie")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/refresh", nil)
	rec = httptest.NewRecorder()
	h.Refresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie status = %d, want 401", rec.Code)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	h := newTestHandler(newFakeUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	access := cookieByName(rec, middleware.AccessCookie)
	if access == nil || access.MaxAge != -1 {
		t.Fatalf("access cookie not expired: %+v", access)
	}
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Patch("/api/v1/admin/users/{id}/password", h.UpdateUserPassword)
	return r
}

func TestUpdateUserPasswordNotFound(t *testing.T) {
	h := newTestHandler(newFakeUserRepo())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/missing/password",
		strings.NewReader(`{"password":"longenough"}`))
	rec := httptest.NewRecorder()

	router := newTestRouter(h)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
