package amqp

import (
	"encoding/json"
	"time"

	"ore/internal/core"
)

const (
	OpEntryCreated = "entry.created"
	OpEntryUpdated = "entry.updated"
	OpEntryDeleted = "entry.deleted"
)

// EntryEvent is published after every successful entry mutation so
// downstream consumers (payroll archive) can mirror the store. It carries
// the full entry and the parent's header with the recomputed status; the
// consumer never has to call back into the server's in-memory state.
type EntryEvent struct {
	Op        string         `json:"op"`
	Timesheet core.Timesheet `json:"timesheet"`
	Entry     *core.Entry    `json:"entry,omitempty"`
	EntryID   string         `json:"entryId"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEntryEvent builds an event from a mutation result. The timesheet's
// entries are stripped: the event stream itself is the entry log.
func NewEntryEvent(op string, ts core.Timesheet, entry *core.Entry, entryID string) *EntryEvent {
	ts.Entries = nil
	return &EntryEvent{
		Op:        op,
		Timesheet: ts,
		Entry:     entry,
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

func (m *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var msg EntryEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
