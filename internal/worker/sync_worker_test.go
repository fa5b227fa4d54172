package worker

import (
	"context"
	"errors"
	"testing"

	"ore/internal/amqp"
	"ore/internal/core"
)

type fakeArchive struct {
	timesheets map[string]core.Timesheet
	entries    map[string]core.Entry
	fail       bool
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		timesheets: make(map[string]core.Timesheet),
		entries:    make(map[string]core.Entry),
	}
}

func (f *fakeArchive) ArchiveTimesheet(_ context.Context, ts core.Timesheet) error {
	if f.fail {
		return errors.New("archive down")
	}
	f.timesheets[ts.ID] = ts
	return nil
}

func (f *fakeArchive) ArchiveEntry(_ context.Context, _ string, e core.Entry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeArchive) RemoveArchivedEntry(_ context.Context, entryID string) error {
	delete(f.entries, entryID)
	return nil
}

func TestHandleEntryEventCreate(t *testing.T) {
	archive := newFakeArchive()
	w := NewSyncWorker(archive)

	entry := core.Entry{ID: "e1", Date: core.NewDate(2024, 1, 16), Project: "p", TypeOfWork: "t", TaskDescription: "d", Hours: 6}
	ts := core.Timesheet{ID: "3", WeekNumber: 3, Status: core.StatusIncomplete}
	event := amqp.NewEntryEvent(amqp.OpEntryCreated, ts, &entry, entry.ID)

	if err := w.HandleEntryEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := archive.entries["e1"]; !ok {
		t.Fatalf("entry not archived")
	}
	if archive.timesheets["3"].Status != core.StatusIncomplete {
		t.Fatalf("timesheet header not archived")
	}

	processed, failed := w.Stats()
	if processed != 1 || failed != 0 {
		t.Fatalf("stats = %d/%d", processed, failed)
	}
}

func TestHandleEntryEventDelete(t *testing.T) {
	archive := newFakeArchive()
	archive.entries["e1"] = core.Entry{ID: "e1"}
	w := NewSyncWorker(archive)

	event := amqp.NewEntryEvent(amqp.OpEntryDeleted, core.Timesheet{ID: "3", Status: core.StatusMissing}, nil, "e1")
	if err := w.HandleEntryEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := archive.entries["e1"]; ok {
		t.Fatalf("entry not removed")
	}
}

func TestHandleEntryEventBadPayload(t *testing.T) {
	w := NewSyncWorker(newFakeArchive())

	// Create without an entry payload.
	event := amqp.NewEntryEvent(amqp.OpEntryCreated, core.Timesheet{ID: "3"}, nil, "e1")
	if err := w.HandleEntryEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error")
	}

	// Unknown op.
	event = amqp.NewEntryEvent("entry.exploded", core.Timesheet{ID: "3"}, nil, "e1")
	if err := w.HandleEntryEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error")
	}

	_, failed := w.Stats()
	if failed != 2 {
		t.Fatalf("failed = %d, want 2", failed)
	}
}

func TestHandleEntryEventArchiveFailure(t *testing.T) {
	archive := newFakeArchive()
	archive.fail = true
	w := NewSyncWorker(archive)

	entry := core.Entry{ID: "e1", Hours: 1}
	event := amqp.NewEntryEvent(amqp.OpEntryUpdated, core.Timesheet{ID: "3"}, &entry, "e1")
	if err := w.HandleEntryEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error")
	}
}
