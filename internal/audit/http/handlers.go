package audithttp

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chronos-hr/chronos/internal/audit"
	"github.com/chronos-hr/chronos/internal/shared"
)

const maxDateRange = 90 * 24 * time.Hour

// TimelineService defines the business contract for timeline data.
type TimelineService interface {
	Timeline(ctx context.Context, filters audit.TimelineFilters, page, pageSize int) (audit.Result, error)
	Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.Entry, error)
}

// Handler serves the audit timeline read API.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
	now     func() time.Time
}

// NewHandler constructs the audit handler.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, now: time.Now}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.service.Timeline(r.Context(), filters, page, pageSize)
	if err != nil {
		h.logger.Error("load audit timeline", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load audit timeline")
		return
	}
	shared.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.Error("export audit timeline", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to export audit timeline")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-timeline.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"created_at", "actor_id", "action", "resource", "record_id"})
	for _, entry := range entries {
		_ = writer.Write([]string{
			entry.CreatedAt.Format(time.RFC3339),
			entry.ActorID,
			entry.Action,
			entry.Resource,
			entry.RecordID,
		})
	}
	writer.Flush()
}

func (h *Handler) parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		ActorID:  q.Get("actor_id"),
		Resource: q.Get("resource"),
		Action:   q.Get("action"),
	}
	var err error
	if filters.From, err = parseDate(q.Get("from")); err != nil {
		return audit.TimelineFilters{}, fmt.Errorf("invalid from date: %w", err)
	}
	if filters.To, err = parseDate(q.Get("to")); err != nil {
		return audit.TimelineFilters{}, fmt.Errorf("invalid to date: %w", err)
	}
	if !filters.From.IsZero() && !filters.To.IsZero() {
		if filters.To.Before(filters.From) {
			return audit.TimelineFilters{}, fmt.Errorf("to date precedes from date")
		}
		if filters.To.Sub(filters.From) > maxDateRange {
			return audit.TimelineFilters{}, fmt.Errorf("date range exceeds 90 days")
		}
	}
	return filters, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
