// Package seed holds the sample data both storage backends start from.
// Timesheets are provisioned out of band; this is the provisioned set.
package seed

import "ore/internal/core"

// Timesheets returns the five sample weeks: three COMPLETED, one
// INCOMPLETE, one MISSING. Statuses are derived, never hand-written.
func Timesheets() []core.Timesheet {
	weeks := []core.Timesheet{
		{
			ID:         "1",
			WeekNumber: 1,
			StartDate:  core.NewDate(2024, 1, 1),
			EndDate:    core.NewDate(2024, 1, 5),
			Entries: []core.Entry{
				entry("1-1", 2024, 1, 1, "Project Alpha", "Development", "Homepage Development", 5),
				entry("1-2", 2024, 1, 1, "Project Beta", "Testing", "Unit testing", 3),
				entry("1-3", 2024, 1, 2, "Project Alpha", "Development", "API Integration", 6),
				entry("1-4", 2024, 1, 2, "Project Gamma", "Bug fixes", "Fix login issue", 2),
				entry("1-5", 2024, 1, 3, "Project Beta", "Development", "Dashboard UI", 4),
				entry("1-6", 2024, 1, 3, "Project Alpha", "Design", "UI mockups", 4),
				entry("1-7", 2024, 1, 4, "Project Gamma", "Development", "Feature implementation", 7),
				entry("1-8", 2024, 1, 4, "Project Beta", "Documentation", "API documentation", 1),
				entry("1-9", 2024, 1, 5, "Project Alpha", "Testing", "Integration testing", 3),
				entry("1-10", 2024, 1, 5, "Project Beta", "Development", "Code review and refactoring", 5),
			},
		},
		{
			ID:         "2",
			WeekNumber: 2,
			StartDate:  core.NewDate(2024, 1, 8),
			EndDate:    core.NewDate(2024, 1, 12),
			Entries: []core.Entry{
				entry("2-1", 2024, 1, 8, "Project Alpha", "Development", "User authentication", 6),
				entry("2-2", 2024, 1, 8, "Project Name", "Design", "Wireframe design", 2),
				entry("2-3", 2024, 1, 9, "Project Beta", "Development", "Database schema", 5),
				entry("2-4", 2024, 1, 9, "Project Gamma", "Bug fixes", "Fix performance issues", 3),
				entry("2-5", 2024, 1, 10, "Project Alpha", "Development", "Payment integration", 7),
				entry("2-6", 2024, 1, 10, "Project Beta", "Testing", "E2E testing", 1),
				entry("2-7", 2024, 1, 11, "Project Gamma", "Development", "Admin panel", 4),
				entry("2-8", 2024, 1, 11, "Project Name", "Development", "Mobile responsive", 4),
				entry("2-9", 2024, 1, 12, "Project Alpha", "Documentation", "User guide", 2),
				entry("2-10", 2024, 1, 12, "Project Beta", "Development", "Feature enhancements", 6),
			},
		},
		{
			ID:         "3",
			WeekNumber: 3,
			StartDate:  core.NewDate(2024, 1, 15),
			EndDate:    core.NewDate(2024, 1, 19),
			Entries: []core.Entry{
				entry("3-1", 2024, 1, 15, "Project Alpha", "Development", "New feature development", 5),
				entry("3-2", 2024, 1, 15, "Project Beta", "Testing", "Test cases", 3),
				entry("3-3", 2024, 1, 16, "Project Gamma", "Development", "Backend API", 6),
				entry("3-4", 2024, 1, 16, "Project Alpha", "Bug fixes", "Critical bug fixes", 2),
				entry("3-5", 2024, 1, 17, "Project Beta", "Development", "Frontend components", 4),
			},
		},
		{
			ID:         "4",
			WeekNumber: 4,
			StartDate:  core.NewDate(2024, 1, 22),
			EndDate:    core.NewDate(2024, 1, 26),
			Entries: []core.Entry{
				entry("4-1", 2024, 1, 22, "Project Name", "Development", "Search functionality", 6),
				entry("4-2", 2024, 1, 22, "Project Alpha", "Design", "UI improvements", 2),
				entry("4-3", 2024, 1, 23, "Project Beta", "Development", "Data visualization", 5),
				entry("4-4", 2024, 1, 23, "Project Gamma", "Testing", "Load testing", 3),
				entry("4-5", 2024, 1, 24, "Project Alpha", "Development", "Email notifications", 4),
				entry("4-6", 2024, 1, 24, "Project Name", "Development", "Report generation", 4),
				entry("4-7", 2024, 1, 25, "Project Beta", "Bug fixes", "Fix data export", 3),
				entry("4-8", 2024, 1, 25, "Project Gamma", "Development", "New module", 5),
				entry("4-9", 2024, 1, 26, "Project Alpha", "Documentation", "Technical docs", 2),
				entry("4-10", 2024, 1, 26, "Project Beta", "Development", "Performance optimization", 6),
			},
		},
		{
			ID:         "5",
			WeekNumber: 5,
			StartDate:  core.NewDate(2024, 1, 29),
			EndDate:    core.NewDate(2024, 2, 2),
		},
	}

	for i := range weeks {
		weeks[i].Status = core.DeriveStatus(weeks[i].Entries)
	}
	return weeks
}

// Projects and TypesOfWork are the label vocabularies offered by clients.
func Projects() []string {
	return []string{"Project Alpha", "Project Beta", "Project Gamma", "Project Name"}
}

func TypesOfWork() []string {
	return []string{"Development", "Bug fixes", "Testing", "Design", "Documentation"}
}

func entry(id string, year, month, day int, project, typeOfWork, desc string, hours float64) core.Entry {
	return core.Entry{
		ID:              id,
		Date:            core.NewDate(year, month, day),
		Project:         project,
		TypeOfWork:      typeOfWork,
		TaskDescription: desc,
		Hours:           hours,
	}
}
