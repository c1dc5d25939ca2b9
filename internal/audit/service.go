package audit

import (
	"context"
	"fmt"
)

// PagingInfo describes the timeline window returned.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	PrevPage int  `json:"prev_page,omitempty"`
	NextPage int  `json:"next_page,omitempty"`
}

// Result wraps timeline rows with paging information.
type Result struct {
	Rows   []Entry    `json:"rows"`
	Paging PagingInfo `json:"paging"`
}

// Service coordinates audit timeline reads.
type Service struct {
	store Store
}

// NewService constructs the timeline service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Timeline fetches one page of entries. It reads pageSize+1 rows to decide
// whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters, page, pageSize int) (Result, error) {
	if s.store == nil {
		return Result{}, fmt.Errorf("audit: store not configured")
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	rows, err := s.store.Timeline(ctx, filters, pageSize+1, offset)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// Export fetches every matching entry without paging.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("audit: store not configured")
	}
	return s.store.TimelineAll(ctx, filters)
}
