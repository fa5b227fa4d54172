package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ore/internal/core"
)

// Repository is the SQLite-backed store. It implements the same ports as
// the memory store and doubles as the archive target for the sync worker.
// Each mutation runs budget check, entry write, and status update inside
// one transaction, so a timesheet can never be observed half-mutated.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SeedIfEmpty loads the given timesheets when the database has none.
func (r *Repository) SeedIfEmpty(ctx context.Context, timesheets []core.Timesheet) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timesheets`).Scan(&count); err != nil {
		return fmt.Errorf("count timesheets: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, ts := range timesheets {
		status := core.DeriveStatus(ts.Entries)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timesheets (id, week_number, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)`,
			ts.ID, ts.WeekNumber, ts.StartDate.String(), ts.EndDate.String(), string(status),
		); err != nil {
			return fmt.Errorf("seed timesheet %s: %w", ts.ID, err)
		}
		for pos, e := range ts.Entries {
			if err := insertEntry(ctx, tx, ts.ID, e, pos); err != nil {
				return fmt.Errorf("seed entry %s: %w", e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Seeded timesheet database", "timesheets", len(timesheets))
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEntry(ctx context.Context, q querier, timesheetID string, e core.Entry, position int) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO entries (id, timesheet_id, entry_date, project, type_of_work, task_description, hours, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, timesheetID, e.Date.String(), e.Project, e.TypeOfWork, e.TaskDescription, e.Hours, position,
	)
	return err
}

func loadTimesheet(ctx context.Context, q querier, id string) (core.Timesheet, error) {
	var (
		ts               core.Timesheet
		startStr, endStr string
		statusStr        string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, week_number, start_date, end_date, status FROM timesheets WHERE id = ?`, id,
	).Scan(&ts.ID, &ts.WeekNumber, &startStr, &endStr, &statusStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Timesheet{}, core.ErrTimesheetNotFound
	}
	if err != nil {
		return core.Timesheet{}, fmt.Errorf("select timesheet: %w", err)
	}

	if ts.StartDate, err = core.ParseDate(startStr); err != nil {
		return core.Timesheet{}, fmt.Errorf("parse start date: %w", err)
	}
	if ts.EndDate, err = core.ParseDate(endStr); err != nil {
		return core.Timesheet{}, fmt.Errorf("parse end date: %w", err)
	}
	ts.Status = core.Status(statusStr)

	if ts.Entries, err = loadEntries(ctx, q, id); err != nil {
		return core.Timesheet{}, err
	}
	return ts, nil
}

func loadEntries(ctx context.Context, q querier, timesheetID string) ([]core.Entry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, entry_date, project, type_of_work, task_description, hours
		 FROM entries WHERE timesheet_id = ? ORDER BY position`, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer rows.Close()

	entries := make([]core.Entry, 0, 8)
	for rows.Next() {
		var (
			e       core.Entry
			dateStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Project, &e.TypeOfWork, &e.TaskDescription, &e.Hours); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse entry date: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetTimesheet implements store.TimesheetReader.
func (r *Repository) GetTimesheet(ctx context.Context, id string) (core.Timesheet, error) {
	return loadTimesheet(ctx, r.db, id)
}

// ListTimesheets implements store.TimesheetReader. Timesheets come back in
// insertion (rowid) order; filtering and pagination reuse the core logic so
// both backends observe identical query semantics.
func (r *Repository) ListTimesheets(ctx context.Context, filter core.ListFilter, page, limit int) (core.TimesheetPage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM timesheets ORDER BY rowid`)
	if err != nil {
		return core.TimesheetPage{}, fmt.Errorf("select timesheet ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return core.TimesheetPage{}, fmt.Errorf("scan timesheet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return core.TimesheetPage{}, err
	}

	items := make([]core.Timesheet, 0, len(ids))
	for _, id := range ids {
		ts, err := loadTimesheet(ctx, r.db, id)
		if err != nil {
			return core.TimesheetPage{}, err
		}
		items = append(items, ts)
	}

	filtered := core.FilterTimesheets(items, filter)
	return core.PaginateTimesheets(filtered, page, limit), nil
}

func (r *Repository) mutate(ctx context.Context, timesheetID string, fn func(ts *core.Timesheet, tx *sql.Tx) error) (core.Timesheet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Timesheet{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ts, err := loadTimesheet(ctx, tx, timesheetID)
	if err != nil {
		return core.Timesheet{}, err
	}

	if err := fn(&ts, tx); err != nil {
		return core.Timesheet{}, err
	}

	ts.Status = core.DeriveStatus(ts.Entries)
	if _, err := tx.ExecContext(ctx,
		`UPDATE timesheets SET status = ? WHERE id = ?`, string(ts.Status), timesheetID,
	); err != nil {
		return core.Timesheet{}, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Timesheet{}, fmt.Errorf("commit: %w", err)
	}
	return ts, nil
}

// CreateEntry implements store.EntryWriter.
func (r *Repository) CreateEntry(ctx context.Context, timesheetID string, draft core.EntryDraft) (core.Entry, core.Timesheet, error) {
	var created core.Entry
	ts, err := r.mutate(ctx, timesheetID, func(ts *core.Timesheet, tx *sql.Tx) error {
		if err := draft.Validate(); err != nil {
			return err
		}
		if err := core.CheckCreate(ts.Entries, draft.Hours); err != nil {
			return err
		}
		created = core.Entry{
			ID:              uuid.NewString(),
			Date:            draft.Date,
			Project:         draft.Project,
			TypeOfWork:      draft.TypeOfWork,
			TaskDescription: draft.TaskDescription,
			Hours:           draft.Hours,
		}
		if err := insertEntry(ctx, tx, timesheetID, created, len(ts.Entries)); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		ts.Entries = append(ts.Entries, created)
		return nil
	})
	if err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}
	return created, ts, nil
}

// UpdateEntry implements store.EntryWriter.
func (r *Repository) UpdateEntry(ctx context.Context, timesheetID, entryID string, patch core.EntryPatch) (core.Entry, core.Timesheet, error) {
	var updated core.Entry
	ts, err := r.mutate(ctx, timesheetID, func(ts *core.Timesheet, tx *sql.Tx) error {
		idx := ts.FindEntry(entryID)
		if idx < 0 {
			return core.ErrEntryNotFound
		}
		if err := patch.Validate(); err != nil {
			return err
		}
		updated = patch.Apply(ts.Entries[idx])
		if err := core.CheckUpdate(ts.Entries, entryID, updated.Hours); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE entries SET entry_date = ?, project = ?, type_of_work = ?, task_description = ?, hours = ? WHERE id = ?`,
			updated.Date.String(), updated.Project, updated.TypeOfWork, updated.TaskDescription, updated.Hours, entryID,
		); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		ts.Entries[idx] = updated
		return nil
	})
	if err != nil {
		return core.Entry{}, core.Timesheet{}, err
	}
	return updated, ts, nil
}

// DeleteEntry implements store.EntryWriter.
func (r *Repository) DeleteEntry(ctx context.Context, timesheetID, entryID string) (core.Timesheet, error) {
	return r.mutate(ctx, timesheetID, func(ts *core.Timesheet, tx *sql.Tx) error {
		idx := ts.FindEntry(entryID)
		if idx < 0 {
			return core.ErrEntryNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		ts.Entries = append(ts.Entries[:idx], ts.Entries[idx+1:]...)
		return nil
	})
}

// ArchiveTimesheet upserts a timesheet header as observed in an event
// stream. Used by the sync worker; entries arrive separately.
func (r *Repository) ArchiveTimesheet(ctx context.Context, ts core.Timesheet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timesheets (id, week_number, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET week_number = excluded.week_number,
		 start_date = excluded.start_date, end_date = excluded.end_date, status = excluded.status`,
		ts.ID, ts.WeekNumber, ts.StartDate.String(), ts.EndDate.String(), string(ts.Status),
	)
	if err != nil {
		return fmt.Errorf("archive timesheet %s: %w", ts.ID, err)
	}
	return nil
}

// ArchiveEntry upserts an entry as observed in an event stream, appending
// at the end when the entry is new.
func (r *Repository) ArchiveEntry(ctx context.Context, timesheetID string, e core.Entry) error {
	var next int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM entries WHERE timesheet_id = ?`, timesheetID,
	).Scan(&next); err != nil {
		return fmt.Errorf("next entry position: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, timesheet_id, entry_date, project, type_of_work, task_description, hours, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET entry_date = excluded.entry_date, project = excluded.project,
		 type_of_work = excluded.type_of_work, task_description = excluded.task_description, hours = excluded.hours`,
		e.ID, timesheetID, e.Date.String(), e.Project, e.TypeOfWork, e.TaskDescription, e.Hours, next,
	)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", e.ID, err)
	}
	return nil
}

// RemoveArchivedEntry drops an entry observed as deleted in an event stream.
func (r *Repository) RemoveArchivedEntry(ctx context.Context, entryID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID); err != nil {
		return fmt.Errorf("remove archived entry %s: %w", entryID, err)
	}
	return nil
}
