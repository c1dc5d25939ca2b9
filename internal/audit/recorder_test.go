package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hr/chronos/internal/access"
)

type stubSink struct {
	entries []Entry
	err     error
}

func (s *stubSink) Submit(_ context.Context, entry Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func auditedDescriptor(recordID access.RecordIDFunc, details access.DetailsFunc) access.Descriptor {
	return access.Descriptor{
		Resource:  "timesheets",
		Operation: "create",
		Audit: &access.AuditDescriptor{
			Resource: "timesheets",
			Action:   "CREATE",
			RecordID: recordID,
			Details:  details,
		},
	}
}

func TestRecorderBuildsEntryFromOutcome(t *testing.T) {
	recordID := uuid.New()
	sink := &stubSink{}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := NewRecorder(sink, nil, WithClock(func() time.Time { return now }))

	var results []string
	rec.OnResult = func(result string) { results = append(results, result) }

	d := auditedDescriptor(
		RecordIDPath("timesheet", "id"),
		func(outcome any, _ access.ParamSource) map[string]any {
			return map[string]any{"x": 1}
		},
	)
	p := &access.Principal{ID: "u1", Role: &access.Role{Name: "ADMIN"}}
	outcome := map[string]any{"timesheet": map[string]any{"id": recordID.String()}}

	rec.Record(context.Background(), d, p, access.MapParams{}, outcome)

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	assert.Equal(t, "timesheets", entry.Resource)
	assert.Equal(t, recordID.String(), entry.RecordID)
	assert.Equal(t, "CREATE", entry.Action)
	assert.Equal(t, "u1", entry.ActorID)
	assert.Equal(t, map[string]any{"x": 1}, entry.Details)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, []string{"recorded"}, results)
}

func TestRecorderDefaultsDetailsToEmptyMap(t *testing.T) {
	sink := &stubSink{}
	rec := NewRecorder(sink, nil)

	d := auditedDescriptor(RecordIDPath("id"), nil)
	p := &access.Principal{ID: "u1"}
	rec.Record(context.Background(), d, p, access.MapParams{}, map[string]any{"id": "t1"})

	require.Len(t, sink.entries, 1)
	assert.Equal(t, map[string]any{}, sink.entries[0].Details)
}

func TestRecorderAbortsWithoutRecordID(t *testing.T) {
	sink := &stubSink{}
	rec := NewRecorder(sink, nil)
	var results []string
	rec.OnResult = func(result string) { results = append(results, result) }

	d := auditedDescriptor(RecordIDPath("timesheet", "id"), nil)
	p := &access.Principal{ID: "u1"}
	rec.Record(context.Background(), d, p, access.MapParams{}, map[string]any{"unexpected": true})

	assert.Empty(t, sink.entries)
	assert.Equal(t, []string{"aborted"}, results)
}

func TestRecorderAbortsWithoutActor(t *testing.T) {
	sink := &stubSink{}
	rec := NewRecorder(sink, nil)

	d := auditedDescriptor(RecordIDPath("id"), nil)
	rec.Record(context.Background(), d, nil, access.MapParams{}, map[string]any{"id": "t1"})
	rec.Record(context.Background(), d, &access.Principal{}, access.MapParams{}, map[string]any{"id": "t1"})

	assert.Empty(t, sink.entries)
}

func TestRecorderSwallowsSinkErrors(t *testing.T) {
	sink := &stubSink{err: errors.New("queue unavailable")}
	rec := NewRecorder(sink, nil)
	var results []string
	rec.OnResult = func(result string) { results = append(results, result) }

	d := auditedDescriptor(RecordIDPath("id"), nil)
	p := &access.Principal{ID: "u1"}

	// Must not panic or propagate anything.
	rec.Record(context.Background(), d, p, access.MapParams{}, map[string]any{"id": "t1"})

	assert.Equal(t, []string{"dropped"}, results)
}

func TestRecorderTreatsDuplicateAsRecorded(t *testing.T) {
	sink := &stubSink{err: ErrDuplicateEntry}
	rec := NewRecorder(sink, nil)
	var results []string
	rec.OnResult = func(result string) { results = append(results, result) }

	d := auditedDescriptor(RecordIDPath("id"), nil)
	rec.Record(context.Background(), d, &access.Principal{ID: "u1"}, access.MapParams{}, map[string]any{"id": "t1"})

	assert.Equal(t, []string{"recorded"}, results)
}

func TestRecorderRecoversFromExtractorPanic(t *testing.T) {
	sink := &stubSink{}
	rec := NewRecorder(sink, nil)
	var results []string
	rec.OnResult = func(result string) { results = append(results, result) }

	d := auditedDescriptor(func(outcome any) string {
		panic("outcome shape changed")
	}, nil)

	rec.Record(context.Background(), d, &access.Principal{ID: "u1"}, access.MapParams{}, nil)

	assert.Empty(t, sink.entries)
	assert.Equal(t, []string{"aborted"}, results)
}

func TestStoreSinkTreatsDuplicateAsSuccess(t *testing.T) {
	store := &stubStore{appendErr: ErrDuplicateEntry}
	sink := StoreSink{Store: store}

	assert.NoError(t, sink.Submit(context.Background(), Entry{Resource: "timesheets", RecordID: "t1", Action: "CREATE", ActorID: "u1"}))

	store.appendErr = errors.New("connection refused")
	assert.Error(t, sink.Submit(context.Background(), Entry{Resource: "timesheets", RecordID: "t1", Action: "CREATE", ActorID: "u1"}))
}
