package core

const (
	// StatusFilterAll is the sentinel meaning "no status filtering".
	StatusFilterAll = "ALL"

	DefaultPage  = 1
	DefaultLimit = 5
)

type (
	// ListFilter narrows a timesheet listing. Zero values mean no
	// filtering. The date range applies only when both bounds are set.
	ListFilter struct {
		Status    string
		StartDate Date
		EndDate   Date
	}

	// Pagination describes the slice of results returned by List.
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}

	// TimesheetPage is one page of a filtered listing.
	TimesheetPage struct {
		Timesheets []Timesheet
		Pagination Pagination
	}
)

// Matches reports whether a timesheet passes the filter.
func (f ListFilter) Matches(t Timesheet) bool {
	if f.Status != "" && f.Status != StatusFilterAll && Status(f.Status) != t.Status {
		return false
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() {
		if !overlaps(t.StartDate, t.EndDate, f.StartDate, f.EndDate) {
			return false
		}
	}
	return true
}

// overlaps is the interval-overlap test on inclusive [start, end] windows:
// the timesheet starts inside the filter range, ends inside it, or fully
// contains it. The third clause is redundant given the first two but is the
// observable shape of the check and is kept as such.
func overlaps(tsStart, tsEnd, filterStart, filterEnd Date) bool {
	return within(tsStart, filterStart, filterEnd) ||
		within(tsEnd, filterStart, filterEnd) ||
		(!tsStart.After(filterStart.Time) && !tsEnd.Before(filterEnd.Time))
}

func within(d, lo, hi Date) bool {
	return !d.Before(lo.Time) && !d.After(hi.Time)
}

// FilterTimesheets applies the filter preserving the input's ordering.
func FilterTimesheets(items []Timesheet, f ListFilter) []Timesheet {
	out := make([]Timesheet, 0, len(items))
	for _, t := range items {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// PaginateTimesheets slices one 1-indexed page out of the filtered set.
// Pages past the end yield an empty page, not an error.
func PaginateTimesheets(items []Timesheet, page, limit int) TimesheetPage {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageItems := make([]Timesheet, end-start)
	copy(pageItems, items[start:end])

	return TimesheetPage{
		Timesheets: pageItems,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
