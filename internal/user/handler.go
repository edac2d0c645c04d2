package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/session"
)

// Handler exposes HTTP endpoints for user operations (register / login / logout).
type Handler struct {
	svc     *UserService
	cookies session.CookieOptions
	logger  *zap.SugaredLogger
}

func NewHandler(svc *UserService, cookies session.CookieOptions, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, cookies: cookies, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		h.fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	view, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			h.fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailTaken):
			h.logger.Infow("register conflict", "err", err)
			h.fail(w, http.StatusConflict, "Email already exists. Please try again!")
		default:
			h.logger.Errorw("register failed", "err", err)
			h.fail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "User created successfully!",
		"user":    view,
	})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	pair, view, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debugw("login failed", "err", err)
		switch {
		case errors.Is(err, ErrUserNotFound):
			h.fail(w, http.StatusNotFound, "User with provided email does not exist. Please try again!")
		case errors.Is(err, ErrBadCredentials):
			h.fail(w, http.StatusUnauthorized, "invalid credentials")
		default:
			h.logger.Errorw("login failed", "err", err)
			h.fail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	session.SetPair(w, pair, h.cookies)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "User logged in successfully",
		"user":    view,
	})
}

// Logout clears both token cookies. It is not gated and always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookies(w, h.cookies)
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User logged out successfully",
	})
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"status": "fail", "message": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
