package audit

import (
	"context"
	"log/slog"
	"time"
)

// Receipt tells the caller where a record went.
type Receipt struct {
	EventID string
	Path    string
}

// Recorder writes records to disk and, when configured, to the index. The
// file is the record of truth: a file failure is returned, an index failure
// is only logged.
type Recorder struct {
	writer *FileWriter
	index  *Index
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type RecorderOption func(*Recorder)

// WithIndex also records every written event in idx.
func WithIndex(idx *Index) RecorderOption {
	return func(r *Recorder) { r.index = idx }
}

func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

func WithIDFunc(fn func() string) RecorderOption {
	return func(r *Recorder) { r.newID = fn }
}

func NewRecorder(writer *FileWriter, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		writer: writer,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  NewEventID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stamps e with an id and UTC timestamp (unless already set) and
// persists it.
func (r *Recorder) Record(ctx context.Context, e *Event) (Receipt, error) {
	if e.EventID == "" {
		e.EventID = r.newID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}

	path, err := r.writer.Write(e)
	if err != nil {
		return Receipt{EventID: e.EventID}, err
	}

	if r.index != nil {
		if err := r.index.Add(ctx, e, path); err != nil {
			r.logger.WarnContext(ctx, "audit_index_failed", "event_id", e.EventID, "error", err.Error())
		}
	}
	return Receipt{EventID: e.EventID, Path: path}, nil
}

// Index is the ledger the recorder feeds, nil when disabled.
func (r *Recorder) Index() *Index { return r.index }
