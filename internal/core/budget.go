package core

import "strconv"

// BudgetError is the rejection returned when a mutation would violate the
// weekly hours budget. It is a decision for the caller to surface, not an
// internal fault.
type BudgetError struct {
	// AtLimit is set when the timesheet is already at or over budget and
	// cannot take new entries at all.
	AtLimit bool
	// Available is the number of hours still open under the budget,
	// computed excluding the entry being edited.
	Available float64
}

func (e *BudgetError) Error() string {
	if e.AtLimit {
		return "Timesheet is complete, cannot add new entries"
	}
	return "Maximum available hours: " + formatHours(e.Available)
}

// BudgetStatus is the snapshot handed to clients for clamping interactive
// hour steppers. Direct numeric entry is still validated against the same
// ceiling by the store.
type BudgetStatus struct {
	TotalHours     float64 `json:"totalHours"`
	AvailableHours float64 `json:"availableHours"`
	MaxAllowed     float64 `json:"maxAllowed"`
	AtLimit        bool    `json:"atLimit"`
}

// CheckCreate decides whether a new entry with the given hours fits the
// weekly budget. Field-level hour bounds are checked separately, before
// this runs.
func CheckCreate(entries []Entry, hours float64) error {
	current := TotalHours(entries)
	if current >= WeeklyBudgetHours {
		return &BudgetError{AtLimit: true}
	}
	if current+hours > WeeklyBudgetHours {
		return &BudgetError{Available: WeeklyBudgetHours - current}
	}
	return nil
}

// CheckUpdate decides whether editing the entry identified by editingID to
// the given hours fits the budget. The edited entry's current hours are
// excluded from the running total, so lowering an entry on a full
// timesheet is always permitted.
func CheckUpdate(entries []Entry, editingID string, hours float64) error {
	current := totalExcluding(entries, editingID)
	if current+hours > WeeklyBudgetHours {
		return &BudgetError{Available: WeeklyBudgetHours - current}
	}
	return nil
}

// BudgetFor computes the clamp snapshot for a timesheet. editingID is empty
// for new entries; for edits the named entry's hours are returned to the
// available pool.
func BudgetFor(entries []Entry, editingID string) BudgetStatus {
	total := TotalHours(entries)
	available := WeeklyBudgetHours - totalExcluding(entries, editingID)
	if available < 0 {
		available = 0
	}
	maxAllowed := available
	if maxAllowed > MaxEntryHours {
		maxAllowed = MaxEntryHours
	}
	return BudgetStatus{
		TotalHours:     total,
		AvailableHours: available,
		MaxAllowed:     maxAllowed,
		AtLimit:        editingID == "" && total >= WeeklyBudgetHours,
	}
}

func totalExcluding(entries []Entry, entryID string) float64 {
	var total float64
	for _, e := range entries {
		if entryID != "" && e.ID == entryID {
			continue
		}
		total += e.Hours
	}
	return total
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
