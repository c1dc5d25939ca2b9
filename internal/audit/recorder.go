package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chronos-hr/chronos/internal/access"
)

// Sink accepts entries for durable storage. Outbox hands them to the
// worker queue; StoreSink writes synchronously.
type Sink interface {
	Submit(ctx context.Context, entry Entry) error
}

// Recorder derives an entry from a permitted operation's outcome and hands
// it to the sink. It runs after the response is finalized: nothing it does
// may surface to the caller or undo the business mutation.
type Recorder struct {
	sink    Sink
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
	// OnResult observes recording outcomes ("recorded", "aborted",
	// "dropped"), typically for metrics.
	OnResult func(result string)
}

// RecorderOption tunes a Recorder.
type RecorderOption func(*Recorder)

// WithTimeout bounds each sink submission.
func WithTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.timeout = d }
}

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder constructs a Recorder.
func NewRecorder(sink Sink, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sink:    sink,
		logger:  logger,
		timeout: 5 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record implements access.AuditHook. Every failure path logs a warning
// and returns; a broken extractor or sink must never become a request
// failure.
func (r *Recorder) Record(ctx context.Context, d access.Descriptor, p *access.Principal, params access.ParamSource, outcome any) {
	if r == nil || r.sink == nil || d.Audit == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.warn(d, "extractor panicked", slog.Any("panic", rec))
			r.observe("aborted")
		}
	}()

	if p == nil || p.ID == "" {
		r.warn(d, "no actor on permitted operation")
		r.observe("aborted")
		return
	}

	recordID := d.Audit.RecordID(outcome)
	if recordID == "" {
		// An entry without a target record is meaningless.
		r.warn(d, "outcome yields no record id")
		r.observe("aborted")
		return
	}

	details := map[string]any{}
	if d.Audit.Details != nil {
		if extracted := d.Audit.Details(outcome, params); extracted != nil {
			details = extracted
		}
	}

	entry := Entry{
		Resource:  d.Audit.Resource,
		RecordID:  recordID,
		Action:    d.Audit.Action,
		ActorID:   p.ID,
		Details:   details,
		CreatedAt: r.now().UTC(),
	}

	submitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.sink.Submit(submitCtx, entry); err != nil && !errors.Is(err, ErrDuplicateEntry) {
		r.warn(d, "submit entry", slog.Any("error", err))
		r.observe("dropped")
		return
	}
	r.observe("recorded")
}

func (r *Recorder) warn(d access.Descriptor, msg string, attrs ...slog.Attr) {
	if r.logger == nil {
		return
	}
	base := []slog.Attr{
		slog.String("resource", d.Resource),
		slog.String("operation", d.Operation),
	}
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit: "+msg, append(base, attrs...)...)
}

func (r *Recorder) observe(result string) {
	if r.OnResult != nil {
		r.OnResult(result)
	}
}

// StoreSink writes entries straight to the store, for deployments running
// without a worker. Duplicate entries count as success.
type StoreSink struct {
	Store Store
}

// Submit implements Sink.
func (s StoreSink) Submit(ctx context.Context, entry Entry) error {
	err := s.Store.Append(ctx, entry)
	if errors.Is(err, ErrDuplicateEntry) {
		return nil
	}
	return err
}
