package amqp

import (
	"testing"

	"ore/internal/core"
)

func TestEntryEventRoundTrip(t *testing.T) {
	ts := core.Timesheet{
		ID:         "3",
		WeekNumber: 3,
		StartDate:  core.NewDate(2024, 1, 15),
		EndDate:    core.NewDate(2024, 1, 19),
		Status:     core.StatusIncomplete,
		Entries:    []core.Entry{{ID: "3-1", Hours: 5}},
	}
	entry := core.Entry{
		ID:              "abc",
		Date:            core.NewDate(2024, 1, 16),
		Project:         "Project Alpha",
		TypeOfWork:      "Development",
		TaskDescription: "Backend API",
		Hours:           6,
	}

	event := NewEntryEvent(OpEntryCreated, ts, &entry, entry.ID)
	if event.Timesheet.Entries != nil {
		t.Fatalf("event should not carry the entry list")
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := EntryEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Op != OpEntryCreated || back.EntryID != "abc" {
		t.Fatalf("unexpected event: %+v", back)
	}
	if back.Timesheet.ID != "3" || back.Timesheet.Status != core.StatusIncomplete {
		t.Fatalf("unexpected timesheet header: %+v", back.Timesheet)
	}
	if back.Entry == nil || back.Entry.Hours != 6 || back.Entry.Project != "Project Alpha" {
		t.Fatalf("unexpected entry: %+v", back.Entry)
	}
}

func TestEntryEventDeleted(t *testing.T) {
	event := NewEntryEvent(OpEntryDeleted, core.Timesheet{ID: "1", Status: core.StatusMissing}, nil, "gone")
	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := EntryEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Entry != nil || back.EntryID != "gone" {
		t.Fatalf("unexpected delete event: %+v", back)
	}
}

func TestEntryEventFromJSONMalformed(t *testing.T) {
	if _, err := EntryEventFromJSON([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error")
	}
}
