package store

import (
	"context"

	"ore/internal/core"
)

// Ports for the storage backends. Both the memory store and the SQLite
// repository implement them; the HTTP server only sees these.
type (
	TimesheetReader interface {
		// GetTimesheet returns one timesheet with its entries, or
		// core.ErrTimesheetNotFound.
		GetTimesheet(ctx context.Context, id string) (core.Timesheet, error)

		// ListTimesheets filters and paginates in insertion order.
		ListTimesheets(ctx context.Context, filter core.ListFilter, page, limit int) (core.TimesheetPage, error)
	}

	// EntryWriter mutates entries. Every operation validates fields and
	// the weekly budget before touching the store, and recomputes the
	// parent's status with the mutation as one atomic step.
	EntryWriter interface {
		CreateEntry(ctx context.Context, timesheetID string, draft core.EntryDraft) (core.Entry, core.Timesheet, error)
		UpdateEntry(ctx context.Context, timesheetID, entryID string, patch core.EntryPatch) (core.Entry, core.Timesheet, error)
		DeleteEntry(ctx context.Context, timesheetID, entryID string) (core.Timesheet, error)
	}
)
