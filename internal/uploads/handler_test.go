package uploads

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/internal/validation"
)

func newTestHandler(secret string) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(secret, validation.New(), log)
}

func doCallback(h *Handler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/callback", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Upload-Secret", secret)
	}
	rec := httptest.NewRecorder()
	h.Callback(rec, req)
	return rec
}

func TestCallbackEchoesURL(t *testing.T) {
	h := newTestHandler("s3cret")
	body := `{"key":"covers/abc.png","name":"abc.png","size":2048,"url":"https://cdn.example.com/covers/abc.png"}`

	rec := doCallback(h, "s3cret", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["url"] != "https://cdn.example.com/covers/abc.png" {
		t.Fatalf("url = %q", resp["url"])
	}
}

func TestCallbackRejectsBadSecret(t *testing.T) {
	h := newTestHandler("s3cret")
	body := `{"key":"covers/abc.png","url":"https://cdn.example.com/covers/abc.png"}`

	if rec := doCallback(h, "wrong", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec := doCallback(h, "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header status = %d, want 401", rec.Code)
	}
}

func TestCallbackUnconfigured(t *testing.T) {
	h := newTestHandler("")
	body := `{"key":"covers/abc.png","url":"https://cdn.example.com/covers/abc.png"}`

	if rec := doCallback(h, "anything", body); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCallbackValidatesPayload(t *testing.T) {
	h := newTestHandler("s3cret")

	cases := map[string]string{
		"missing key": `{"url":"https://cdn.example.com/x.png"}`,
		"missing url": `{"key":"covers/x.png"}`,
		"bad url":     `{"key":"covers/x.png","url":"not a url"}`,
	}
	for name, body := range cases {
		if rec := doCallback(h, "s3cret", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rec.Code)
		}
	}

	if rec := doCallback(h, "s3cret", `{"key":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("truncated json: status = %d, want 400", rec.Code)
	}
}
