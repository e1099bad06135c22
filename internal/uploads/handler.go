package uploads

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"
)

// secretHeader carries the shared secret the storage provider sends with
// each upload callback.
const secretHeader = "X-Upload-Secret"

type CallbackRequest struct {
	Key  string `json:"key" validate:"required"`
	Name string `json:"name"`
	Size int64  `json:"size" validate:"omitempty,gte=0"`
	URL  string `json:"url" validate:"required,url"`
}

type Handler struct {
	secret string
	val    *validation.Validator
	log    *slog.Logger
}

func NewHandler(secret string, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		secret: secret,
		val:    val,
		log:    log,
	}
}

// Callback acknowledges a completed upload. The backend stores no upload
// state; it authenticates the notification and echoes the public URL so
// the admin UI can save it on the entity being edited.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if h.secret == "" {
		log.Error("upload callback: secret not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "uploads not configured", nil)
		return
	}

	provided := r.Header.Get(secretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		log.Warn("upload callback: bad secret")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req CallbackRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("upload callback: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("upload callback: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	log.Info("upload callback: ok",
		slog.String("key", req.Key),
		slog.Int64("size", req.Size),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]string{"url": req.URL})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
