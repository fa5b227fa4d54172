package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	StatusCompleted  Status = "COMPLETED"
	StatusIncomplete Status = "INCOMPLETE"
	StatusMissing    Status = "MISSING"

	// WeeklyBudgetHours is the ceiling on total logged hours per timesheet.
	WeeklyBudgetHours = 40.0

	// MinEntryHours and MaxEntryHours bound a single entry's hours field.
	MinEntryHours = 0.5
	MaxEntryHours = 24.0
)

type (
	Status string

	// Date is a calendar day. The wire format is YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Entry is a single logged unit of work inside a timesheet.
	Entry struct {
		ID              string  `json:"id"`
		Date            Date    `json:"date"`
		Project         string  `json:"project"`
		TypeOfWork      string  `json:"typeOfWork"`
		TaskDescription string  `json:"taskDescription"`
		Hours           float64 `json:"hours"`
	}

	// Timesheet is a week-scoped container of entries. Status is derived
	// from the entries and is only ever written by store mutations.
	Timesheet struct {
		ID         string  `json:"id"`
		WeekNumber int     `json:"weekNumber"`
		StartDate  Date    `json:"startDate"`
		EndDate    Date    `json:"endDate"`
		Entries    []Entry `json:"entries"`
		Status     Status  `json:"status"`
	}

	// EntryDraft carries the client-supplied fields for a new entry.
	// The store assigns the id.
	EntryDraft struct {
		Date            Date
		Project         string
		TypeOfWork      string
		TaskDescription string
		Hours           float64
	}

	// EntryPatch is an explicit optional-field update. Nil members keep
	// the entry's prior value; supplied members are validated field by
	// field before being applied.
	EntryPatch struct {
		Date            *Date
		Project         *string
		TypeOfWork      *string
		TaskDescription *string
		Hours           *float64
	}
)

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrEntryNotFound     = errors.New("entry not found")
)

// ValidationError reports a field-level rejection with a user-facing reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusIncomplete, StatusMissing:
		return true
	default:
		return false
	}
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// ValidateHours checks the field-level bounds on an hours value: the
// 0.5–24 range and the half-hour increment rule.
func ValidateHours(h float64) error {
	if h < MinEntryHours {
		return invalidField("hours", "Hours must be at least 0.5")
	}
	if h > MaxEntryHours {
		return invalidField("hours", "Hours cannot exceed 24")
	}
	if math.Mod(h*2, 1) != 0 {
		return invalidField("hours", "Hours must be in 0.5 increments")
	}
	return nil
}

// Validate checks all required fields of a draft before the budget check.
func (d EntryDraft) Validate() error {
	if d.Date.IsZero() {
		return invalidField("date", "Date is required")
	}
	if strings.TrimSpace(d.Project) == "" {
		return invalidField("project", "Project is required")
	}
	if strings.TrimSpace(d.TypeOfWork) == "" {
		return invalidField("typeOfWork", "Type of work is required")
	}
	if strings.TrimSpace(d.TaskDescription) == "" {
		return invalidField("taskDescription", "Task description is required")
	}
	return ValidateHours(d.Hours)
}

// Validate checks every supplied field of a patch. Absent fields pass.
func (p EntryPatch) Validate() error {
	if p.Date != nil && p.Date.IsZero() {
		return invalidField("date", "Date is required")
	}
	if p.Project != nil && strings.TrimSpace(*p.Project) == "" {
		return invalidField("project", "Project is required")
	}
	if p.TypeOfWork != nil && strings.TrimSpace(*p.TypeOfWork) == "" {
		return invalidField("typeOfWork", "Type of work is required")
	}
	if p.TaskDescription != nil && strings.TrimSpace(*p.TaskDescription) == "" {
		return invalidField("taskDescription", "Task description is required")
	}
	if p.Hours != nil {
		return ValidateHours(*p.Hours)
	}
	return nil
}

// Apply merges the patch over an existing entry and returns the result.
// The entry id is never patchable.
func (p EntryPatch) Apply(e Entry) Entry {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Project != nil {
		e.Project = *p.Project
	}
	if p.TypeOfWork != nil {
		e.TypeOfWork = *p.TypeOfWork
	}
	if p.TaskDescription != nil {
		e.TaskDescription = *p.TaskDescription
	}
	if p.Hours != nil {
		e.Hours = *p.Hours
	}
	return e
}

// Clone returns a deep copy so callers can hand timesheets out without
// sharing the entries slice with the store.
func (t Timesheet) Clone() Timesheet {
	out := t
	out.Entries = make([]Entry, len(t.Entries))
	copy(out.Entries, t.Entries)
	return out
}

// FindEntry returns the index of the entry with the given id, or -1.
func (t Timesheet) FindEntry(entryID string) int {
	for i, e := range t.Entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}
