package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ore/internal/auth"
	"ore/internal/core"
	"ore/internal/seed"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := s.sessions.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.LogoutRequest(r)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type referenceResponse struct {
	Projects    []string `json:"projects"`
	TypesOfWork []string `json:"typesOfWork"`
}

// handleReference serves the label vocabularies entry forms offer.
func (s *Server) handleReference(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, referenceResponse{
		Projects:    seed.Projects(),
		TypesOfWork: seed.TypesOfWork(),
	})
}

type listResponse struct {
	Timesheets []core.Timesheet `json:"timesheets"`
	Pagination core.Pagination  `json:"pagination"`
}

func (s *Server) handleListTimesheets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := core.ListFilter{
		Status: strings.TrimSpace(q.Get("status")),
	}

	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = d
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		filter.EndDate = d
	}

	page := intQuery(q.Get("page"), core.DefaultPage)
	limit := intQuery(q.Get("limit"), core.DefaultLimit)

	cacheKey := r.URL.RawQuery
	if result, found := s.listCache.Get(cacheKey); found {
		slog.DebugContext(r.Context(), "List cache hit", "key", cacheKey)
		writeJSON(w, http.StatusOK, listResponse{Timesheets: result.Timesheets, Pagination: result.Pagination})
		return
	}

	result, err := s.backend.ListTimesheets(r.Context(), filter, page, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.listCache.Set(cacheKey, result)
	writeJSON(w, http.StatusOK, listResponse{Timesheets: result.Timesheets, Pagination: result.Pagination})
}

func (s *Server) handleGetTimesheet(w http.ResponseWriter, r *http.Request) {
	ts, err := s.backend.GetTimesheet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	ts, err := s.backend.GetTimesheet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]core.Entry{"entries": ts.Entries})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	ts, err := s.backend.GetTimesheet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	entryID := strings.TrimSpace(r.URL.Query().Get("entryId"))
	writeJSON(w, http.StatusOK, core.BudgetFor(ts.Entries, entryID))
}

type entryRequest struct {
	Date            *core.Date `json:"date"`
	Project         *string    `json:"project"`
	TypeOfWork      *string    `json:"typeOfWork"`
	TaskDescription *string    `json:"taskDescription"`
	Hours           *float64   `json:"hours"`
}

type entryResponse struct {
	Entry     core.Entry     `json:"entry"`
	Timesheet core.Timesheet `json:"timesheet"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft := core.EntryDraft{}
	if req.Date != nil {
		draft.Date = *req.Date
	}
	if req.Project != nil {
		draft.Project = *req.Project
	}
	if req.TypeOfWork != nil {
		draft.TypeOfWork = *req.TypeOfWork
	}
	if req.TaskDescription != nil {
		draft.TaskDescription = *req.TaskDescription
	}
	if req.Hours != nil {
		draft.Hours = *req.Hours
	}

	entry, ts, err := s.backend.CreateEntry(r.Context(), r.PathValue("id"), draft)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.listCache.Purge()
	slog.InfoContext(r.Context(), "Entry created",
		"timesheet_id", ts.ID, "entry_id", entry.ID, "hours", entry.Hours, "status", ts.Status)
	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, Timesheet: ts})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := core.EntryPatch{
		Date:            req.Date,
		Project:         req.Project,
		TypeOfWork:      req.TypeOfWork,
		TaskDescription: req.TaskDescription,
		Hours:           req.Hours,
	}

	entry, ts, err := s.backend.UpdateEntry(r.Context(), r.PathValue("id"), r.PathValue("entryId"), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.listCache.Purge()
	slog.InfoContext(r.Context(), "Entry updated",
		"timesheet_id", ts.ID, "entry_id", entry.ID, "hours", entry.Hours, "status", ts.Status)
	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, Timesheet: ts})
}

type deleteResponse struct {
	Success   bool           `json:"success"`
	Timesheet core.Timesheet `json:"timesheet"`
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := r.PathValue("entryId")

	ts, err := s.backend.DeleteEntry(r.Context(), r.PathValue("id"), entryID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.listCache.Purge()
	slog.InfoContext(r.Context(), "Entry deleted",
		"timesheet_id", ts.ID, "entry_id", entryID, "status", ts.Status)
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Timesheet: ts})
}

// intQuery parses a positive integer query parameter, falling back to the
// default on absence or garbage.
func intQuery(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
