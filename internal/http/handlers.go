package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"contas/internal/core"
)

const dateLayout = "2006-01-02"

// userID reads the authenticated owner from the X-User-ID header. Auth
// itself lives at the edge; the API trusts the header.
func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func (s *Server) monthParam(r *http.Request) string {
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		return m
	}
	return s.now().Format("2006-01")
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto status codes. Anything not
// recognised is a 500 and gets logged with its cause.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidMonthFormat),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidSeries),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidAccount),
		errors.Is(err, core.ErrInvalidBillingDay),
		errors.Is(err, core.ErrFutureEffectiveDate),
		errors.Is(err, core.ErrFutureDatedTransfer),
		errors.Is(err, core.ErrSameAccountTransfer):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrCreditCardNotFound),
		errors.Is(err, core.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrDuplicateCategory),
		errors.Is(err, core.ErrNoPendingTransactions):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// formatBRL formats cents as Brazilian currency (e.g. "R$ 1.234,56").
func formatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	reais := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(reais, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := fmt.Sprintf("R$ %s,%02d", b.String(), rem)
	if neg {
		return "-" + out
	}
	return out
}

// transactionJSON is the wire shape of a ledger entry. Series fields are
// omitted when they do not apply.
type transactionJSON struct {
	ID              string `json:"id"`
	AccountID       string `json:"accountId"`
	TargetAccountID string `json:"targetAccountId,omitempty"`
	CreditCardID    string `json:"creditCardId,omitempty"`
	CategoryID      int64  `json:"categoryId,omitempty"`
	Description     string `json:"description"`
	Observations    string `json:"observations,omitempty"`
	Amount          int64  `json:"amount"`
	Type            string `json:"type"`
	DueDate         string `json:"dueDate"`
	InvoiceDate     string `json:"invoiceDate,omitempty"`
	Effectived      bool   `json:"effectived"`
	IsFixed         bool   `json:"isFixed,omitempty"`
	FixedID         string `json:"fixedId,omitempty"`
	IsRecurring     bool   `json:"isRecurring,omitempty"`
	RecurringFor    int    `json:"recurringFor,omitempty"`
	RecurrenceID    string `json:"recurrenceId,omitempty"`
	Installments    int    `json:"installments,omitempty"`
	InstallmentNum  int    `json:"installmentNumber,omitempty"`
	InstallmentID   string `json:"installmentId,omitempty"`
	TransferID      string `json:"transferId,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:              t.ID,
		AccountID:       t.AccountID,
		TargetAccountID: t.TargetAccountID,
		CreditCardID:    t.CreditCardID,
		CategoryID:      t.CategoryID,
		Description:     t.Description,
		Observations:    t.Observations,
		Amount:          t.Amount,
		Type:            string(t.Type),
		DueDate:         t.DueDate.Format(dateLayout),
		Effectived:      t.Effectived,
		IsFixed:         t.IsFixed,
		FixedID:         t.FixedID,
		IsRecurring:     t.IsRecurring,
		RecurringFor:    t.RecurringFor,
		RecurrenceID:    t.RecurrenceID,
		Installments:    t.Installments,
		InstallmentNum:  t.InstallmentNum,
		InstallmentID:   t.InstallmentID,
		TransferID:      t.TransferID,
	}
	if !t.InvoiceDate.IsZero() {
		out.InvoiceDate = t.InvoiceDate.Format(dateLayout)
	}
	return out
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	return out
}
