package timesheets

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/chronos-hr/chronos/internal/access"
	"github.com/chronos-hr/chronos/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListTimesheetsRequest{}
	if employeeID := q.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	if raw := q.Get("status"); raw != "" {
		status := Status(raw)
		req.Status = &status
	}
	req.Limit, _ = strconv.Atoi(q.Get("limit"))
	req.Offset, _ = strconv.Atoi(q.Get("offset"))
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list timesheets", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load timesheets")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"timesheets": list,
		"total":      total,
		"pagination": shared.NewPagination(req.Offset/max(req.Limit, 1)+1, req.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}
	timesheet, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get timesheet", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, timesheet)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTimesheetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	timesheet, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "create timesheet", err)
		return
	}
	access.CaptureOutcome(r.Context(), map[string]any{"timesheet": map[string]any{
		"id":          timesheet.ID.String(),
		"employee_id": timesheet.EmployeeID.String(),
		"work_date":   req.WorkDate,
		"hours":       timesheet.Hours,
	}})
	shared.RespondJSON(w, http.StatusCreated, timesheet)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}
	var req UpdateTimesheetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	timesheet, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, "update timesheet", err)
		return
	}
	access.CaptureOutcome(r.Context(), timesheet)
	shared.RespondJSON(w, http.StatusOK, timesheet)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "submit timesheet", func(id uuid.UUID, _ uuid.UUID) (*Timesheet, error) {
		return h.service.Submit(r.Context(), id)
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve timesheet", func(id, actor uuid.UUID) (*Timesheet, error) {
		return h.service.Approve(r.Context(), id, actor)
	})
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject timesheet", func(id, actor uuid.UUID) (*Timesheet, error) {
		return h.service.Reject(r.Context(), id, actor)
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, what string, fn func(id, actor uuid.UUID) (*Timesheet, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}
	var actor uuid.UUID
	if p := access.PrincipalFromContext(r.Context()); p != nil {
		actor, _ = uuid.Parse(p.ID)
	}
	timesheet, err := fn(id, actor)
	if err != nil {
		h.respondServiceError(w, what, err)
		return
	}
	access.CaptureOutcome(r.Context(), timesheet)
	shared.RespondJSON(w, http.StatusOK, timesheet)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "timesheet not found")
	case errors.Is(err, ErrStatusConflict):
		shared.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSelfApproval):
		shared.RespondError(w, http.StatusConflict, "cannot decide your own timesheet")
	default:
		h.logger.Error(what, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to "+what)
	}
}
