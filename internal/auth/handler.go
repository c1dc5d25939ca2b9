package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chronos-hr/chronos/internal/access"
	"github.com/chronos-hr/chronos/internal/shared"
)

// PermissionSource resolves the advisory permission names for a role.
type PermissionSource interface {
	RolePermissions(ctx context.Context, roleName string) ([]string, error)
}

// Handler serves login and identity endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	permissions PermissionSource
	validate    *validator.Validate
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, service *Service, permissions PermissionSource) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		permissions: permissions,
		validate:    validator.New(),
	}
}

// MountRoutes registers /login and /me.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Get("/me", h.Me)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse returns the issued token and the caller's identity.
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

// Login validates credentials and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			shared.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	var resp LoginResponse
	resp.Token = token
	resp.User.ID = user.ID.String()
	resp.User.Email = user.Email
	resp.User.Username = user.Username
	resp.User.Role = user.RoleName
	shared.RespondJSON(w, http.StatusOK, resp)
}

// Me returns the resolved principal plus its advisory permissions.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := access.PrincipalFromContext(r.Context())
	if p == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if p.Role != nil && h.permissions != nil {
		perms, err := h.permissions.RolePermissions(r.Context(), p.Role.Name)
		if err != nil {
			h.logger.Warn("resolve permissions", slog.Any("error", err))
		} else {
			p = &access.Principal{ID: p.ID, Username: p.Username, Role: &access.Role{Name: p.Role.Name, Permissions: perms}}
		}
	}
	shared.RespondJSON(w, http.StatusOK, p)
}
