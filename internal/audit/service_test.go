package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore serves Timeline from a fixed slice, recording the window asked
// for. Shared with recorder_test.go.
type stubStore struct {
	entries   []Entry
	appendErr error

	gotFilters TimelineFilters
	gotLimit   int
	gotOffset  int
}

func (s *stubStore) Append(_ context.Context, entry Entry) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubStore) Timeline(_ context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error) {
	s.gotFilters = filters
	s.gotLimit = limit
	s.gotOffset = offset
	if offset >= len(s.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[offset:end], nil
}

func (s *stubStore) TimelineAll(_ context.Context, filters TimelineFilters) ([]Entry, error) {
	s.gotFilters = filters
	return s.entries, nil
}

func seededStore(n int) *stubStore {
	s := &stubStore{}
	for i := 0; i < n; i++ {
		s.entries = append(s.entries, Entry{
			Resource: "timesheets",
			RecordID: fmt.Sprintf("t%d", i),
			Action:   "CREATE",
			ActorID:  "u1",
		})
	}
	return s
}

func TestTimelineFirstPageWithNext(t *testing.T) {
	store := seededStore(25)
	svc := NewService(store)

	res, err := svc.Timeline(context.Background(), TimelineFilters{}, 1, 10)
	require.NoError(t, err)

	assert.Len(t, res.Rows, 10)
	assert.Equal(t, 11, store.gotLimit)
	assert.Equal(t, 0, store.gotOffset)
	assert.True(t, res.Paging.HasNext)
	assert.Equal(t, 2, res.Paging.NextPage)
	assert.Zero(t, res.Paging.PrevPage)
}

func TestTimelineLastPage(t *testing.T) {
	store := seededStore(25)
	svc := NewService(store)

	res, err := svc.Timeline(context.Background(), TimelineFilters{}, 3, 10)
	require.NoError(t, err)

	assert.Len(t, res.Rows, 5)
	assert.Equal(t, 20, store.gotOffset)
	assert.False(t, res.Paging.HasNext)
	assert.Equal(t, 2, res.Paging.PrevPage)
	assert.Zero(t, res.Paging.NextPage)
}

func TestTimelineClampsPaging(t *testing.T) {
	store := seededStore(5)
	svc := NewService(store)

	_, err := svc.Timeline(context.Background(), TimelineFilters{}, -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 21, store.gotLimit)
	assert.Equal(t, 0, store.gotOffset)

	_, err = svc.Timeline(context.Background(), TimelineFilters{}, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 101, store.gotLimit)
}

func TestTimelinePassesFilters(t *testing.T) {
	store := seededStore(1)
	svc := NewService(store)

	filters := TimelineFilters{ActorID: "u1", Resource: "timesheets", Action: "CREATE"}
	_, err := svc.Timeline(context.Background(), filters, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, filters, store.gotFilters)
}

func TestExportReturnsAllRows(t *testing.T) {
	store := seededStore(25)
	svc := NewService(store)

	rows, err := svc.Export(context.Background(), TimelineFilters{Resource: "timesheets"})
	require.NoError(t, err)
	assert.Len(t, rows, 25)
	assert.Equal(t, "timesheets", store.gotFilters.Resource)
}
