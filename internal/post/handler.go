package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/post/entity"
)

// Handler exposes the gated post endpoints. Every route expects the auth
// gate to have attached claims to the request context.
type Handler struct {
	svc    *PostService
	logger *zap.SugaredLogger
}

func NewHandler(svc *PostService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		h.serverError(w, "list posts failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"result": len(posts),
		"posts":  posts,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleErr(w, "get post failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "post": p})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		h.fail(w, http.StatusNotFound, "No claims found in the request data")
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.svc.Create(r.Context(), claims.Subject, req.Title, req.Content)
	if err != nil {
		h.handleErr(w, "create post failed", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "post": p})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		h.fail(w, http.StatusNotFound, "No claims found in the request data")
		return
	}
	var patch entity.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.svc.Update(r.Context(), claims.Subject, r.PathValue("id"), patch)
	if err != nil {
		h.handleErr(w, "update post failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "post": p})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		h.fail(w, http.StatusNotFound, "No claims found in the request data")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.Subject, r.PathValue("id")); err != nil {
		h.handleErr(w, "delete post failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Post deleted"})
}

func (h *Handler) handleErr(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPostNotFound):
		h.fail(w, http.StatusNotFound, "No post with that id exists")
	case errors.Is(err, ErrTitleTaken):
		h.logger.Infow(msg, "err", err)
		h.fail(w, http.StatusConflict, "Post with that title already exists")
	case errors.Is(err, ErrForbidden):
		h.fail(w, http.StatusForbidden, "You are not allowed to modify this post")
	default:
		h.serverError(w, msg, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Errorw(msg, "err", err)
	h.fail(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"status": "fail", "message": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
