// Package memory is the default in-process storage backend. Data is reset
// on restart; there are no durability promises here.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ore/internal/core"
)

// Store holds timesheets in insertion order. Mutations are serialized per
// timesheet id: the budget check, the entry write, and the status recompute
// happen under one lock, so concurrent creations cannot jointly exceed the
// weekly budget.
type Store struct {
	mu     sync.RWMutex
	order  []string
	sheets map[string]*sheetState
}

type sheetState struct {
	mu sync.Mutex
	ts core.Timesheet
}

// New builds a store from the given timesheets, deriving each status so
// seed data can never carry a stale denormalized value.
func New(timesheets []core.Timesheet) *Store {
	s := &Store{sheets: make(map[string]*sheetState, len(timesheets))}
	for _, ts := range timesheets {
		cloned := ts.Clone()
		cloned.Status = core.DeriveStatus(cloned.Entries)
		s.order = append(s.order, cloned.ID)
		s.sheets[cloned.ID] = &sheetState{ts: cloned}
	}
	return s
}

func (s *Store) get(id string) (*sheetState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sheets[id]
	return st, ok
}

// GetTimesheet implements store.TimesheetReader.
func (s *Store) GetTimesheet(_ context.Context, id string) (core.Timesheet, error) {
	st, ok := s.get(id)
	if !ok {
		return core.Timesheet{}, core.ErrTimesheetNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ts.Clone(), nil
}

// ListTimesheets implements store.TimesheetReader. The snapshot preserves
// insertion order; filtering and pagination never reorder.
func (s *Store) ListTimesheets(_ context.Context, filter core.ListFilter, page, limit int) (core.TimesheetPage, error) {
	s.mu.RLock()
	snapshot := make([]core.Timesheet, 0, len(s.order))
	for _, id := range s.order {
		st := s.sheets[id]
		st.mu.Lock()
		snapshot = append(snapshot, st.ts.Clone())
		st.mu.Unlock()
	}
	s.mu.RUnlock()

	filtered := core.FilterTimesheets(snapshot, filter)
	return core.PaginateTimesheets(filtered, page, limit), nil
}

// CreateEntry implements store.EntryWriter.
func (s *Store) CreateEntry(_ context.Context, timesheetID string, draft core.EntryDraft) (core.Entry, core.Timesheet, error) {
	st, ok := s.get(timesheetID)
	if !ok {
		return core.Entry{}, core.Timesheet{}, core.ErrTimesheetNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}
	if err := core.CheckCreate(st.ts.Entries, draft.Hours); err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}

	entry := core.Entry{
		ID:              uuid.NewString(),
		Date:            draft.Date,
		Project:         draft.Project,
		TypeOfWork:      draft.TypeOfWork,
		TaskDescription: draft.TaskDescription,
		Hours:           draft.Hours,
	}
	st.ts.Entries = append(st.ts.Entries, entry)
	st.ts.Status = core.DeriveStatus(st.ts.Entries)

	return entry, st.ts.Clone(), nil
}

// UpdateEntry implements store.EntryWriter.
func (s *Store) UpdateEntry(_ context.Context, timesheetID, entryID string, patch core.EntryPatch) (core.Entry, core.Timesheet, error) {
	st, ok := s.get(timesheetID)
	if !ok {
		return core.Entry{}, core.Timesheet{}, core.ErrTimesheetNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := st.ts.FindEntry(entryID)
	if idx < 0 {
		return core.Entry{}, core.Timesheet{}, core.ErrEntryNotFound
	}
	if err := patch.Validate(); err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}

	updated := patch.Apply(st.ts.Entries[idx])
	if err := core.CheckUpdate(st.ts.Entries, entryID, updated.Hours); err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}

	st.ts.Entries[idx] = updated
	st.ts.Status = core.DeriveStatus(st.ts.Entries)

	return updated, st.ts.Clone(), nil
}

// DeleteEntry implements store.EntryWriter.
func (s *Store) DeleteEntry(_ context.Context, timesheetID, entryID string) (core.Timesheet, error) {
	st, ok := s.get(timesheetID)
	if !ok {
		return core.Timesheet{}, core.ErrTimesheetNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := st.ts.FindEntry(entryID)
	if idx < 0 {
		return core.Timesheet{}, core.ErrEntryNotFound
	}

	st.ts.Entries = append(st.ts.Entries[:idx], st.ts.Entries[idx+1:]...)
	st.ts.Status = core.DeriveStatus(st.ts.Entries)

	return st.ts.Clone(), nil
}
