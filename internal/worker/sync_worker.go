package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"ore/internal/amqp"
	"ore/internal/core"
)

// Archive is the slice of the SQLite repository the worker writes to.
type Archive interface {
	ArchiveTimesheet(ctx context.Context, ts core.Timesheet) error
	ArchiveEntry(ctx context.Context, timesheetID string, e core.Entry) error
	RemoveArchivedEntry(ctx context.Context, entryID string) error
}

// SyncWorker mirrors entry events into the SQLite archive so payroll can
// query past weeks even when the server runs the in-memory backend.
type SyncWorker struct {
	archive Archive

	processed int64
	failed    int64
}

func NewSyncWorker(archive Archive) *SyncWorker {
	return &SyncWorker{archive: archive}
}

// HandleEntryEvent applies one event to the archive. Safe to call for
// redelivered events: all archive writes are upserts or idempotent deletes.
func (w *SyncWorker) HandleEntryEvent(ctx context.Context, event *amqp.EntryEvent) error {
	if err := w.apply(ctx, event); err != nil {
		atomic.AddInt64(&w.failed, 1)
		return err
	}

	atomic.AddInt64(&w.processed, 1)
	slog.InfoContext(ctx, "Archived entry event",
		"op", event.Op,
		"timesheet_id", event.Timesheet.ID,
		"entry_id", event.EntryID,
		"status", string(event.Timesheet.Status))
	return nil
}

func (w *SyncWorker) apply(ctx context.Context, event *amqp.EntryEvent) error {
	// Keep the timesheet header current first. The status in the event is
	// the one derived by the store after the mutation.
	if err := w.archive.ArchiveTimesheet(ctx, event.Timesheet); err != nil {
		return fmt.Errorf("archive timesheet: %w", err)
	}

	switch event.Op {
	case amqp.OpEntryCreated, amqp.OpEntryUpdated:
		if event.Entry == nil {
			return fmt.Errorf("event %s without entry payload", event.Op)
		}
		if err := w.archive.ArchiveEntry(ctx, event.Timesheet.ID, *event.Entry); err != nil {
			return fmt.Errorf("archive entry: %w", err)
		}
	case amqp.OpEntryDeleted:
		if err := w.archive.RemoveArchivedEntry(ctx, event.EntryID); err != nil {
			return fmt.Errorf("remove archived entry: %w", err)
		}
	default:
		return fmt.Errorf("unknown event op %q", event.Op)
	}
	return nil
}

// Stats returns processed/failed counters for periodic logging.
func (w *SyncWorker) Stats() (processed, failed int64) {
	return atomic.LoadInt64(&w.processed), atomic.LoadInt64(&w.failed)
}
