package timesheets

import (
	"github.com/go-chi/chi/v5"

	"github.com/chronos-hr/chronos/internal/access"
)

func (h *Handler) MountRoutes(r chi.Router, guard access.Guard) {
	r.With(guard.Require("timesheets", "list")).Get("/", h.List)
	r.With(guard.Require("timesheets", "get")).Get("/{id}", h.Show)
	r.With(guard.Require("timesheets", "create")).Post("/", h.Create)
	r.With(guard.Require("timesheets", "update")).Patch("/{id}", h.Update)
	r.With(guard.Require("timesheets", "submit")).Post("/{id}/submit", h.Submit)
	r.With(guard.Require("timesheets", "approve")).Post("/{id}/approve", h.Approve)
	r.With(guard.Require("timesheets", "reject")).Post("/{id}/reject", h.Reject)
}
