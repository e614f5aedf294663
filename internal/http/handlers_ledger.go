package http

import (
	"errors"
	"fmt"
	"net/http"

	"tracker/internal/chart"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

// entryRow is one expense line in the ledger table. AmountRaw round-trips
// through the delete form so a deletion matches the stored record exactly.
type entryRow struct {
	Category    string
	Amount      string
	AmountRaw   string
	Description string
	Date        string
}

// summaryData feeds the balance/budget/table partial.
type summaryData struct {
	Balance    string
	Negative   bool
	Budget     string
	Spent      string
	Percent    int
	BarWidth   int
	OverBudget bool
	Rows       []entryRow
}

// ledgerPageData feeds the full ledger page.
type ledgerPageData struct {
	AccountID   string
	AccountName string
	Categories  []string
	Summary     summaryData
}

// requireSession resolves the signed-in session, redirecting browsers to the
// login page and handing htmx elements a 401 fragment when nobody is in.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (services.Session, bool) {
	sess := s.currentSession()
	if sess.Active() {
		return sess, true
	}
	if isHTMX(r) {
		UnauthorizedError("Session expired. Sign in again.").Write(w)
	} else {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
	return services.Session{}, false
}

func (s *Server) buildSummary(sess services.Session) (summaryData, error) {
	acct, err := s.accounts.Account(sess)
	if err != nil {
		return summaryData{}, err
	}
	entries, err := s.ledger.Entries(sess)
	if err != nil {
		return summaryData{}, err
	}
	status, err := s.ledger.BudgetStatus(sess)
	if err != nil {
		return summaryData{}, err
	}

	data := summaryData{
		Balance:    formatRupees(acct.Balance),
		Negative:   acct.Balance.Cents < 0,
		Budget:     formatRupees(status.Budget),
		Spent:      formatRupees(status.Spent),
		Percent:    int(status.Percent),
		BarWidth:   int(status.Percent),
		OverBudget: status.OverBudget,
	}
	if data.BarWidth > 100 {
		data.BarWidth = 100
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, entryRow{
			Category:    e.Category,
			Amount:      formatRupees(e.Amount),
			AmountRaw:   e.Amount.String(),
			Description: e.Description,
			Date:        e.Date,
		})
	}
	return data, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	acct, err := s.accounts.Account(sess)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	summary, err := s.buildSummary(sess)
	if err != nil {
		InternalServerError("Error loading ledger").Write(w)
		return
	}
	s.render(w, r, "ledger.html", ledgerPageData{
		AccountID:   sess.UserID,
		AccountName: acct.Name,
		Categories:  core.Categories,
		Summary:     summary,
	})
}

// handleSummary renders the balance/budget/table partial for htmx refreshes.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	summary, err := s.buildSummary(sess)
	if err != nil {
		InternalServerError("Error loading summary").Write(w)
		return
	}
	s.render(w, r, "summary.html", summary)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	category := formValue(r, "category")
	amount := formValue(r, "amount")
	description := formValue(r, "description")

	rec, err := s.ledger.AddExpense(r.Context(), sess, category, amount, description)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError("Amount must be a positive number.").Write(w)
		return
	case errors.Is(err, core.ErrValidation):
		UnprocessableEntityError("Unknown category.").Write(w)
		return
	case errors.Is(err, core.ErrAuthentication):
		UnauthorizedError("Session expired. Sign in again.").Write(w)
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Failed to add expense",
			applog.FieldError, err,
			applog.FieldAccount, sess.UserID,
			applog.FieldCategory, category)
		InternalServerError("Error saving expense").Write(w)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerExpenseAdded(category).
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Added %s to %s", formatRupees(rec.Amount), category)).
		BodyHTML(`<div class="success">Expense recorded</div>`).
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	category := formValue(r, "category")
	amount, err := core.ParseAmount(formValue(r, "amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number.").Write(w)
		return
	}
	description := r.Form.Get("description")
	date := formValue(r, "date")

	err = s.ledger.DeleteExpense(r.Context(), sess, category, amount, description, date)
	switch {
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("No matching expense found.").Write(w)
		return
	case errors.Is(err, core.ErrAuthentication):
		UnauthorizedError("Session expired. Sign in again.").Write(w)
		return
	case err != nil:
		InternalServerError("Error deleting expense").Write(w)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerExpenseDeleted(category).
		TriggerSuccessNotification(fmt.Sprintf("Removed %s from %s", formatRupees(amount), category)).
		BodyHTML(`<div class="success">Expense removed</div>`).
		Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	err := s.ledger.SetBudget(r.Context(), sess, formValue(r, "budget"))
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError("Budget must be a non-negative number.").Write(w)
		return
	case errors.Is(err, core.ErrAuthentication):
		UnauthorizedError("Session expired. Sign in again.").Write(w)
		return
	case err != nil:
		InternalServerError("Error saving budget").Write(w)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerBudgetUpdated().
		TriggerSuccessNotification("Monthly budget updated").
		BodyHTML(`<div class="success">Budget saved</div>`).
		Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.UserID+"_expenses.csv"))
	if err := s.ledger.ExportCSV(sess, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.ErrorContext(r.Context(), "CSV export failed",
			applog.FieldError, err, applog.FieldAccount, sess.UserID)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	acct, err := s.accounts.Account(sess)
	if err != nil {
		UnauthorizedError("Session expired. Sign in again.").Write(w)
		return
	}

	path, err := s.charts.Render(acct.Expenses, acct.Balance, sess.UserID)
	switch {
	case errors.Is(err, chart.ErrDisabled):
		ErrorResponse(http.StatusServiceUnavailable, "Chart rendering is disabled.").Write(w)
		return
	case errors.Is(err, chart.ErrNoData):
		NotFoundError("Nothing to chart: no expenses and no positive balance.").Write(w)
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Chart render failed",
			applog.FieldError, err, applog.FieldAccount, sess.UserID)
		InternalServerError("Error rendering chart").Write(w)
		return
	}

	if s.openViewer {
		if err := chart.OpenImage(path); err != nil {
			s.logger.WarnContext(r.Context(), "Could not open image viewer",
				applog.FieldError, err, applog.FieldPath, path)
		}
	}
	http.ServeFile(w, r, path)
}
