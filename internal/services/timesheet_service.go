package services

import (
	"context"
	"log/slog"

	"ore/internal/amqp"
	"ore/internal/core"
	"ore/internal/store"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, event *amqp.EntryEvent) error
}

// TimesheetService wraps a store's EntryWriter and publishes an entry event
// after each successful mutation. Publishing is best effort: the store is
// authoritative and a broker outage must never fail the request.
type TimesheetService struct {
	writer    store.EntryWriter
	publisher EventPublisher
}

func NewTimesheetService(writer store.EntryWriter, publisher EventPublisher) *TimesheetService {
	return &TimesheetService{
		writer:    writer,
		publisher: publisher,
	}
}

// CreateEntry implements store.EntryWriter.
func (s *TimesheetService) CreateEntry(ctx context.Context, timesheetID string, draft core.EntryDraft) (core.Entry, core.Timesheet, error) {
	entry, ts, err := s.writer.CreateEntry(ctx, timesheetID, draft)
	if err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}
	s.publish(ctx, amqp.NewEntryEvent(amqp.OpEntryCreated, ts, &entry, entry.ID))
	return entry, ts, nil
}

// UpdateEntry implements store.EntryWriter.
func (s *TimesheetService) UpdateEntry(ctx context.Context, timesheetID, entryID string, patch core.EntryPatch) (core.Entry, core.Timesheet, error) {
	entry, ts, err := s.writer.UpdateEntry(ctx, timesheetID, entryID, patch)
	if err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}
	s.publish(ctx, amqp.NewEntryEvent(amqp.OpEntryUpdated, ts, &entry, entry.ID))
	return entry, ts, nil
}

// DeleteEntry implements store.EntryWriter.
func (s *TimesheetService) DeleteEntry(ctx context.Context, timesheetID, entryID string) (core.Timesheet, error) {
	ts, err := s.writer.DeleteEntry(ctx, timesheetID, entryID)
	if err != nil {
		return core.Timesheet{}, err
	}
	s.publish(ctx, amqp.NewEntryEvent(amqp.OpEntryDeleted, ts, nil, entryID))
	return ts, nil
}

func (s *TimesheetService) publish(ctx context.Context, event *amqp.EntryEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping entry event", "op", event.Op)
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"error", err, "op", event.Op,
			"timesheet_id", event.Timesheet.ID, "entry_id", event.EntryID)
	}
}
