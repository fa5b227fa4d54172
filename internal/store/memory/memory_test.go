package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ore/internal/core"
	"ore/internal/seed"
)

func draft(hours float64) core.EntryDraft {
	return core.EntryDraft{
		Date:            core.NewDate(2024, 1, 17),
		Project:         "Project Alpha",
		TypeOfWork:      "Development",
		TaskDescription: "Backend API",
		Hours:           hours,
	}
}

func TestGetTimesheet(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	ts, err := s.GetTimesheet(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ts.WeekNumber != 1 || ts.Status != core.StatusCompleted || len(ts.Entries) != 10 {
		t.Fatalf("unexpected timesheet: %+v", ts)
	}

	if _, err := s.GetTimesheet(ctx, "999"); !errors.Is(err, core.ErrTimesheetNotFound) {
		t.Fatalf("expected ErrTimesheetNotFound, got %v", err)
	}
}

func TestCreateEntry(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	// Week 3 is at 20 hours.
	entry, ts, err := s.CreateEntry(ctx, "3", draft(4))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if ts.Status != core.StatusIncomplete {
		t.Fatalf("status = %s, want INCOMPLETE", ts.Status)
	}
	if got := ts.Entries[len(ts.Entries)-1].ID; got != entry.ID {
		t.Fatalf("entry not appended last: %s", got)
	}

	// Unknown timesheet.
	if _, _, err := s.CreateEntry(ctx, "999", draft(1)); !errors.Is(err, core.ErrTimesheetNotFound) {
		t.Fatalf("expected ErrTimesheetNotFound, got %v", err)
	}

	// Field validation precedes the budget check.
	bad := draft(3)
	bad.Project = ""
	var ve *core.ValidationError
	if _, _, err := s.CreateEntry(ctx, "3", bad); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateEntryBudget(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	// Week 3 sits at 20 hours; bring it to 38.
	if _, _, err := s.CreateEntry(ctx, "3", draft(18)); err != nil {
		t.Fatalf("setup create: %v", err)
	}

	// 38 → 40.5 is rejected.
	var be *core.BudgetError
	if _, _, err := s.CreateEntry(ctx, "3", draft(2.5)); !errors.As(err, &be) {
		t.Fatalf("expected BudgetError, got %v", err)
	}

	// 38 → 40 exactly is accepted and completes the week.
	_, ts, err := s.CreateEntry(ctx, "3", draft(2))
	if err != nil {
		t.Fatalf("create to 40: %v", err)
	}
	if ts.Status != core.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", ts.Status)
	}

	// At limit: no further entries at all.
	if _, _, err := s.CreateEntry(ctx, "3", draft(0.5)); !errors.As(err, &be) || !be.AtLimit {
		t.Fatalf("expected at-limit BudgetError, got %v", err)
	}
}

func TestUpdateEntry(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	// Week 1 is full at 40; entry 1-1 has 5 hours. Lowering it works.
	hours := 3.0
	entry, ts, err := s.UpdateEntry(ctx, "1", "1-1", core.EntryPatch{Hours: &hours})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if entry.Hours != 3 {
		t.Fatalf("hours = %v, want 3", entry.Hours)
	}
	if ts.Status != core.StatusIncomplete {
		t.Fatalf("status = %s, want INCOMPLETE", ts.Status)
	}
	// Untouched fields survive the patch.
	if entry.Project != "Project Alpha" || entry.TaskDescription != "Homepage Development" {
		t.Fatalf("patch clobbered fields: %+v", entry)
	}

	// Raising it past the budget is rejected.
	tooMany := 10.0
	var be *core.BudgetError
	if _, _, err := s.UpdateEntry(ctx, "1", "1-1", core.EntryPatch{Hours: &tooMany}); !errors.As(err, &be) {
		t.Fatalf("expected BudgetError, got %v", err)
	}

	// NotFound on either id.
	if _, _, err := s.UpdateEntry(ctx, "999", "1-1", core.EntryPatch{}); !errors.Is(err, core.ErrTimesheetNotFound) {
		t.Fatalf("expected ErrTimesheetNotFound, got %v", err)
	}
	if _, _, err := s.UpdateEntry(ctx, "1", "nope", core.EntryPatch{}); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	s := New([]core.Timesheet{{
		ID:         "w",
		WeekNumber: 9,
		StartDate:  core.NewDate(2024, 3, 4),
		EndDate:    core.NewDate(2024, 3, 8),
		Entries:    []core.Entry{{ID: "only", Date: core.NewDate(2024, 3, 4), Project: "p", TypeOfWork: "t", TaskDescription: "d", Hours: 5}},
	}})
	ctx := context.Background()

	ts, err := s.DeleteEntry(ctx, "w", "only")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(ts.Entries) != 0 || ts.Status != core.StatusMissing {
		t.Fatalf("expected empty MISSING sheet, got %+v", ts)
	}

	if _, err := s.DeleteEntry(ctx, "w", "only"); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestListTimesheets(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	page, err := s.ListTimesheets(ctx, core.ListFilter{Status: "COMPLETED"}, 2, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Timesheets) != 1 || page.Timesheets[0].ID != "2" {
		t.Fatalf("unexpected page: %+v", page.Timesheets)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := New(seed.Timesheets())
	ctx := context.Background()

	page, _ := s.ListTimesheets(ctx, core.ListFilter{}, 1, 5)
	page.Timesheets[0].Entries[0].Hours = 999

	ts, _ := s.GetTimesheet(ctx, page.Timesheets[0].ID)
	if ts.Entries[0].Hours == 999 {
		t.Fatalf("list leaked internal state")
	}
}

func TestConcurrentCreatesRespectBudget(t *testing.T) {
	s := New([]core.Timesheet{{
		ID:         "w",
		WeekNumber: 9,
		StartDate:  core.NewDate(2024, 3, 4),
		EndDate:    core.NewDate(2024, 3, 8),
	}})
	ctx := context.Background()

	// 100 goroutines racing 1-hour creates: exactly 40 may land.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.CreateEntry(ctx, "w", draft(1))
		}()
	}
	wg.Wait()

	ts, err := s.GetTimesheet(ctx, "w")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := core.TotalHours(ts.Entries); got != 40 {
		t.Fatalf("total = %v, want exactly 40", got)
	}
	if ts.Status != core.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", ts.Status)
	}
}
