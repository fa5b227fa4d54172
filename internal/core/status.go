package core

// TotalHours sums hours across entries. Plain float64 addition: inputs are
// half-hour increments, so subtotals stay exact at this scale.
func TotalHours(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// DeriveStatus maps a timesheet's entries to its status. Pure; depends only
// on the multiset of hours values, never on entry order.
//
//	total == 0        → MISSING
//	0 < total < 40    → INCOMPLETE
//	total >= 40       → COMPLETED
func DeriveStatus(entries []Entry) Status {
	total := TotalHours(entries)
	switch {
	case total == 0:
		return StatusMissing
	case total < WeeklyBudgetHours:
		return StatusIncomplete
	default:
		return StatusCompleted
	}
}
