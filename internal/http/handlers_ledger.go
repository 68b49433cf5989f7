package http

import (
	"log/slog"
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/services"
)

type createTransactionRequest struct {
	AccountID    string `json:"accountId"`
	CategoryID   int64  `json:"categoryId"`
	Description  string `json:"description"`
	Observations string `json:"observations"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	DueDate      string `json:"dueDate"`
	Effectived   bool   `json:"effectived"`
	IsFixed      bool   `json:"isFixed"`
	RecurringFor int    `json:"recurringFor"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dueDate, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due date, want YYYY-MM-DD")
		return
	}

	series := core.Single()
	switch {
	case req.IsFixed && req.RecurringFor > 0:
		writeError(w, http.StatusBadRequest, "fixed and recurring are mutually exclusive")
		return
	case req.IsFixed:
		series = core.Fixed()
	case req.RecurringFor > 0:
		series = core.Recurring(req.RecurringFor)
	}

	txs, err := s.ledger.CreateTransaction(r.Context(), services.TransactionInput{
		UserID:       uid,
		AccountID:    req.AccountID,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		Observations: req.Observations,
		Amount:       req.Amount,
		Type:         core.TransactionType(req.Type),
		DueDate:      dueDate,
		Effectived:   req.Effectived,
		Series:       series,
	}, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"transactions": toTransactionsJSON(txs),
	})
}

func (s *Server) handleFetchMonth(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	feed, err := s.ledger.FetchMonth(r.Context(), uid, s.monthParam(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionsJSON(feed.Transactions),
		"summary": map[string]any{
			"totalIncome":  feed.Summary.TotalIncome,
			"totalExpense": feed.Summary.TotalExpense,
			"balance":      feed.Summary.Balance,
		},
	})
}

type toggleEffectivedRequest struct {
	DueDate string `json:"dueDate"`
}

func (s *Server) handleToggleEffectived(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req toggleEffectivedRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due date, want YYYY-MM-DD")
			return
		}
		dueDate = &d
	}

	tx, err := s.ledger.ToggleEffectived(r.Context(), uid, r.PathValue("id"), dueDate, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionJSON(*tx))
}

type createTransferRequest struct {
	SourceAccountID string `json:"sourceAccountId"`
	TargetAccountID string `json:"targetAccountId"`
	Amount          int64  `json:"amount"`
	DueDate         string `json:"dueDate"`
	Observations    string `json:"observations"`
}

func (s *Server) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dueDate, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due date, want YYYY-MM-DD")
		return
	}

	pair, err := s.transfer.Create(r.Context(), services.TransferInput{
		UserID:          uid,
		SourceAccountID: req.SourceAccountID,
		TargetAccountID: req.TargetAccountID,
		Amount:          req.Amount,
		DueDate:         dueDate,
		Observations:    req.Observations,
	}, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transfer accepted",
		"userId", uid, "transferId", pair[0].TransferID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"transferId":   pair[0].TransferID,
		"transactions": toTransactionsJSON(pair),
	})
}
