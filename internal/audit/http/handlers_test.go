package audithttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hr/chronos/internal/audit"
)

type stubTimelineService struct {
	result  audit.Result
	entries []audit.Entry
	err     error

	gotFilters  audit.TimelineFilters
	gotPage     int
	gotPageSize int
}

func (s *stubTimelineService) Timeline(_ context.Context, filters audit.TimelineFilters, page, pageSize int) (audit.Result, error) {
	s.gotFilters = filters
	s.gotPage = page
	s.gotPageSize = pageSize
	return s.result, s.err
}

func (s *stubTimelineService) Export(_ context.Context, filters audit.TimelineFilters) ([]audit.Entry, error) {
	s.gotFilters = filters
	return s.entries, s.err
}

func TestHandleTimelineParsesQuery(t *testing.T) {
	svc := &stubTimelineService{
		result: audit.Result{
			Rows:   []audit.Entry{{Resource: "timesheets", RecordID: "t1", Action: "CREATE", ActorID: "u1"}},
			Paging: audit.PagingInfo{Page: 2, PageSize: 10},
		},
	}
	h := NewHandler(nil, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/audit?page=2&page_size=10&actor_id=u1&resource=timesheets&action=CREATE&from=2026-01-01&to=2026-02-01", nil)
	rec := httptest.NewRecorder()
	h.handleTimeline(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.gotPage)
	assert.Equal(t, 10, svc.gotPageSize)
	assert.Equal(t, "u1", svc.gotFilters.ActorID)
	assert.Equal(t, "timesheets", svc.gotFilters.Resource)
	assert.Equal(t, "CREATE", svc.gotFilters.Action)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), svc.gotFilters.From)

	var result audit.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "t1", result.Rows[0].RecordID)
}

func TestHandleTimelineRejectsBadDates(t *testing.T) {
	h := NewHandler(nil, &stubTimelineService{})

	cases := map[string]string{
		"malformed from":  "/audit?from=yesterday",
		"inverted range":  "/audit?from=2026-02-01&to=2026-01-01",
		"oversized range": "/audit?from=2026-01-01&to=2026-06-01",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleTimeline(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleExportWritesCSV(t *testing.T) {
	svc := &stubTimelineService{
		entries: []audit.Entry{
			{
				Resource:  "timesheets",
				RecordID:  "t1",
				Action:    "APPROVE",
				ActorID:   "u2",
				CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		},
	}
	h := NewHandler(nil, svc)

	rec := httptest.NewRecorder()
	h.handleExport(rec, httptest.NewRequest(http.MethodGet, "/audit/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "created_at,actor_id,action,resource,record_id", lines[0])
	assert.Equal(t, "2026-03-14T09:30:00Z,u2,APPROVE,timesheets,t1", lines[1])
}
