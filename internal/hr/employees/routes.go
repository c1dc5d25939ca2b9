package employees

import (
	"github.com/go-chi/chi/v5"

	"github.com/chronos-hr/chronos/internal/access"
)

func (h *Handler) MountRoutes(r chi.Router, guard access.Guard) {
	r.With(guard.Require("employees", "list")).Get("/", h.List)
	r.With(guard.Require("employees", "get")).Get("/{id}", h.Show)
	r.With(guard.Require("employees", "create")).Post("/", h.Create)
	r.With(guard.Require("employees", "update")).Patch("/{id}", h.Update)
	r.With(guard.Require("employees", "deactivate")).Delete("/{id}", h.Deactivate)
}
