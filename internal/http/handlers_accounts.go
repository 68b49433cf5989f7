package http

import (
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/services"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	InitialBalance int64  `json:"initialBalance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.accounts.CreateAccount(r.Context(), services.AccountInput{
		UserID:         uid,
		Name:           req.Name,
		Type:           core.AccountType(req.Type),
		InitialBalance: req.InitialBalance,
	}, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountJSON(a))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	accounts, err := s.accounts.ListAccounts(r.Context(), uid)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, len(accounts))
	for i := range accounts {
		out[i] = accountJSON(&accounts[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

func (s *Server) handleAccountsOverview(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	overviews, err := s.balance.AccountsOverview(r.Context(), uid, s.monthParam(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, len(overviews))
	for i, o := range overviews {
		out[i] = map[string]any{
			"id":                  o.ID,
			"name":                o.Name,
			"type":                string(o.Type),
			"currentTotalAmount":  o.CurrentTotalAmount,
			"expectedTotalAmount": o.ExpectedTotalAmount,
			"currentFormatted":    formatBRL(o.CurrentTotalAmount),
			"expectedFormatted":   formatBRL(o.ExpectedTotalAmount),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.accounts.CreateCategory(r.Context(), uid, req.Name, core.TransactionType(req.Type))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":   c.ID,
		"name": c.Name,
		"type": string(c.Type),
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	categories, err := s.accounts.ListCategories(r.Context(), uid)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, len(categories))
	for i, c := range categories {
		out[i] = map[string]any{
			"id":     c.ID,
			"name":   c.Name,
			"type":   string(c.Type),
			"global": c.UserID == "",
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleTotalAmount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	total, err := s.balance.TotalAmount(r.Context(), uid, s.monthParam(r), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	accounts := make([]map[string]any, len(total.Accounts))
	for i, a := range total.Accounts {
		accounts[i] = map[string]any{
			"id":        a.ID,
			"name":      a.Name,
			"balance":   a.Balance,
			"formatted": formatBRL(a.Balance),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":      string(total.Kind),
		"amount":    total.Amount,
		"formatted": formatBRL(total.Amount),
		"accounts":  accounts,
	})
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	summary, err := s.balance.MonthSummary(r.Context(), uid, s.monthParam(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalIncome":  summary.TotalIncome,
		"totalExpense": summary.TotalExpense,
		"balance":      summary.Balance,
		"formatted":    formatBRL(summary.Balance),
	})
}

func accountJSON(a *core.Account) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"name":           a.Name,
		"type":           string(a.Type),
		"initialBalance": a.InitialBalance,
		"createdAt":      a.CreatedAt.Format(time.RFC3339),
	}
}
