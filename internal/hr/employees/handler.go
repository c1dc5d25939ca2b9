package employees

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
	req := ListEmployeesRequest{}
	if dep := q.Get("department"); dep != "" {
		req.Department = &dep
	}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "true"
		req.IsActive = &active
	}
	if search := q.Get("search"); search != "" {
		req.Search = &search
	}
	req.Limit, _ = strconv.Atoi(q.Get("limit"))
	req.Offset, _ = strconv.Atoi(q.Get("offset"))

	list, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load employees")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"employees":  list,
		"pagination": shared.NewPagination(req.Offset/max(req.Limit, 1)+1, req.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.logger.Error("get employee", slog.Any("error", err), slog.String("id", id.String()))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	shared.RespondJSON(w, http.StatusOK, employee)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	employee, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			shared.RespondError(w, http.StatusConflict, "employee already exists")
			return
		}
		h.logger.Error("create employee", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}
	access.CaptureOutcome(r.Context(), map[string]any{"employee": map[string]any{
		"id":    employee.ID.String(),
		"email": employee.Email,
	}})
	shared.RespondJSON(w, http.StatusCreated, employee)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	var req UpdateEmployeeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	employee, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.logger.Error("update employee", slog.Any("error", err), slog.String("id", id.String()))
		shared.RespondError(w, http.StatusInternalServerError, "failed to update employee")
		return
	}
	access.CaptureOutcome(r.Context(), employee)
	shared.RespondJSON(w, http.StatusOK, employee)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.logger.Error("deactivate employee", slog.Any("error", err), slog.String("id", id.String()))
		shared.RespondError(w, http.StatusInternalServerError, "failed to deactivate employee")
		return
	}
	access.CaptureOutcome(r.Context(), map[string]any{"id": id.String()})
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
