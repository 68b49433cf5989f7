package http

import (
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/services"
)

type createCreditCardRequest struct {
	AccountID    string `json:"accountId"`
	Name         string `json:"name"`
	ClosingDay   int    `json:"closingDay"`
	DueDay       int    `json:"dueDay"`
	InitialLimit int64  `json:"initialLimit"`
}

func (s *Server) handleCreateCreditCard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createCreditCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := s.accounts.CreateCreditCard(r.Context(), services.CreditCardInput{
		UserID:       uid,
		AccountID:    req.AccountID,
		Name:         req.Name,
		ClosingDay:   req.ClosingDay,
		DueDay:       req.DueDay,
		InitialLimit: req.InitialLimit,
	}, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, cardJSON(card))
}

func (s *Server) handleListCreditCards(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	cards, err := s.accounts.ListCreditCards(r.Context(), uid)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, len(cards))
	for i := range cards {
		out[i] = cardJSON(&cards[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"creditCards": out})
}

type createCreditExpenseRequest struct {
	CategoryID   int64  `json:"categoryId"`
	Description  string `json:"description"`
	Observations string `json:"observations"`
	Amount       int64  `json:"amount"`
	DueDate      string `json:"dueDate"`
	IsFixed      bool   `json:"isFixed"`
	Installments int    `json:"installments"`
}

func (s *Server) handleCreateCreditExpense(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req createCreditExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dueDate, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due date, want YYYY-MM-DD")
		return
	}

	txs, err := s.credit.CreateExpense(r.Context(), services.CreditExpenseInput{
		UserID:       uid,
		CreditCardID: r.PathValue("id"),
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		Observations: req.Observations,
		Amount:       req.Amount,
		DueDate:      dueDate,
		IsFixed:      req.IsFixed,
		Installments: req.Installments,
	}, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"transactions": toTransactionsJSON(txs),
	})
}

func (s *Server) handleFetchInvoice(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	inv, err := s.credit.FetchInvoice(r.Context(), uid, r.PathValue("id"), s.monthParam(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, invoiceJSON(inv))
}

func (s *Server) handleOpenInvoice(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	inv, err := s.credit.OpenInvoice(r.Context(), uid, r.PathValue("id"), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, invoiceJSON(inv))
}

func (s *Server) handleClosedInvoice(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	inv, err := s.credit.ClosedInvoice(r.Context(), uid, r.PathValue("id"), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, invoiceJSON(inv))
}

func invoiceJSON(inv *services.Invoice) map[string]any {
	return map[string]any{
		"creditCardId":   inv.CreditCardID,
		"invoiceDate":    inv.InvoiceDate.Format(dateLayout),
		"closingDay":     inv.ClosingDay,
		"dueDay":         inv.DueDay,
		"totalAmount":    inv.TotalAmount,
		"totalFormatted": formatBRL(inv.TotalAmount),
		"isPaid":         inv.IsPaid,
		"expenses":       toTransactionsJSON(inv.Expenses),
	}
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	total, err := s.credit.PayInvoice(r.Context(), uid, r.PathValue("id"), s.monthParam(r), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"paidAmount":    total,
		"paidFormatted": formatBRL(total),
	})
}

func cardJSON(c *core.CreditCard) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"accountId":    c.AccountID,
		"name":         c.Name,
		"closingDay":   c.ClosingDay,
		"dueDay":       c.DueDay,
		"initialLimit": c.InitialLimit,
		"currentLimit": c.CurrentLimit,
		"createdAt":    c.CreatedAt.Format(time.RFC3339),
	}
}
