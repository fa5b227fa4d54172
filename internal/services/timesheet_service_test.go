package services

import (
	"context"
	"errors"
	"testing"

	"ore/internal/amqp"
	"ore/internal/core"
	"ore/internal/seed"
	"ore/internal/store/memory"
)

type capturingPublisher struct {
	events []*amqp.EntryEvent
	err    error
}

func (p *capturingPublisher) PublishEntryEvent(_ context.Context, e *amqp.EntryEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func draft() core.EntryDraft {
	return core.EntryDraft{
		Date:            core.NewDate(2024, 1, 17),
		Project:         "Project Alpha",
		TypeOfWork:      "Development",
		TaskDescription: "Backend API",
		Hours:           4,
	}
}

func TestCreateEntryPublishesEvent(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewTimesheetService(memory.New(seed.Timesheets()), pub)

	entry, ts, err := svc.CreateEntry(context.Background(), "3", draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Op != amqp.OpEntryCreated || ev.EntryID != entry.ID {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Timesheet.Status != ts.Status || ev.Timesheet.Entries != nil {
		t.Fatalf("unexpected event timesheet: %+v", ev.Timesheet)
	}
}

func TestRejectedMutationPublishesNothing(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewTimesheetService(memory.New(seed.Timesheets()), pub)

	// Week 1 is already at the budget.
	if _, _, err := svc.CreateEntry(context.Background(), "1", draft()); err == nil {
		t.Fatalf("expected rejection")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected for rejected mutation, got %d", len(pub.events))
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker down")}
	svc := NewTimesheetService(memory.New(seed.Timesheets()), pub)

	if _, _, err := svc.CreateEntry(context.Background(), "3", draft()); err != nil {
		t.Fatalf("mutation should survive publish failure: %v", err)
	}
}

func TestNilPublisherTolerated(t *testing.T) {
	svc := NewTimesheetService(memory.New(seed.Timesheets()), nil)

	_, ts, err := svc.CreateEntry(context.Background(), "3", draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hours := 2.0
	if _, _, err := svc.UpdateEntry(context.Background(), "3", ts.Entries[0].ID, core.EntryPatch{Hours: &hours}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.DeleteEntry(context.Background(), "3", ts.Entries[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteEntryPublishesDeletion(t *testing.T) {
	pub := &capturingPublisher{}
	svc := NewTimesheetService(memory.New(seed.Timesheets()), pub)

	if _, err := svc.DeleteEntry(context.Background(), "1", "1-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ev := pub.events[len(pub.events)-1]
	if ev.Op != amqp.OpEntryDeleted || ev.EntryID != "1-1" || ev.Entry != nil {
		t.Fatalf("unexpected delete event: %+v", ev)
	}
}
