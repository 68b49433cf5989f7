package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

// CreditService records card purchases, stamps every record with the
// invoice it bills to, and pays invoices by settling their pending
// expenses while restoring the card limit.
type CreditService struct {
	store  Store
	events EventPublisher
}

func NewCreditService(store Store, events EventPublisher) *CreditService {
	return &CreditService{store: store, events: events}
}

// CreditExpenseInput is a request to record a card purchase. Installments
// and IsFixed are mutually exclusive; both zero values mean a one-off
// charge.
type CreditExpenseInput struct {
	UserID       string
	CreditCardID string
	CategoryID   int64
	Description  string
	Observations string
	Amount       int64
	DueDate      time.Time
	IsFixed      bool
	Installments int
}

// CreateExpense expands a card purchase into its billing records and
// commits them together with the card limit decrement. A fixed charge
// reserves one month's amount of limit; an installment purchase reserves
// the full total even though each invoice only bills its share.
func (s *CreditService) CreateExpense(ctx context.Context, in CreditExpenseInput, now time.Time) ([]core.Transaction, error) {
	if err := core.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.IsFixed && in.Installments > 1 {
		return nil, fmt.Errorf("%w: fixed charge cannot have installments", core.ErrInvalidSeries)
	}
	if in.Installments < 0 {
		return nil, fmt.Errorf("%w: negative installments", core.ErrInvalidSeries)
	}

	card, err := s.store.GetCreditCard(ctx, in.UserID, in.CreditCardID)
	if err != nil {
		return nil, err
	}

	txs := expandCreditExpense(in, card, now)
	if err := s.store.InsertCreditPurchase(ctx, txs, card.ID, in.Amount); err != nil {
		return nil, fmt.Errorf("insert credit purchase: %w", err)
	}

	slog.InfoContext(ctx, "Credit expense created",
		"userId", in.UserID, "creditCardId", card.ID, "count", len(txs), "amount", in.Amount)
	if s.events != nil {
		ids := make([]string, len(txs))
		for i, t := range txs {
			ids[i] = t.ID
		}
		if err := s.events.PublishTransactionsCreated(ctx, in.UserID, ids); err != nil {
			slog.WarnContext(ctx, "Failed to publish transactions created event", "error", err)
		}
	}
	return txs, nil
}

func expandCreditExpense(in CreditExpenseInput, card *core.CreditCard, now time.Time) []core.Transaction {
	base := core.Transaction{
		UserID:       in.UserID,
		AccountID:    card.AccountID,
		CreditCardID: card.ID,
		CategoryID:   in.CategoryID,
		Description:  in.Description,
		Observations: in.Observations,
		Amount:       in.Amount,
		Type:         core.TransactionCredit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch {
	case in.IsFixed:
		fixedID := uuid.NewString()
		txs := make([]core.Transaction, 0, core.FixedSeriesLength)
		for i := 0; i < core.FixedSeriesLength; i++ {
			t := base
			t.ID = uuid.NewString()
			t.DueDate = core.AddMonths(in.DueDate, i)
			t.InvoiceDate = core.InvoiceDate(t.DueDate, card.ClosingDay, card.DueDay)
			t.IsFixed = true
			t.FixedID = fixedID
			txs = append(txs, t)
		}
		return txs
	case in.Installments > 1:
		installmentID := uuid.NewString()
		shares := core.SplitInstallments(in.Amount, in.Installments)
		txs := make([]core.Transaction, 0, in.Installments)
		for i, share := range shares {
			t := base
			t.ID = uuid.NewString()
			t.Amount = share
			t.DueDate = core.AddMonths(in.DueDate, i)
			t.InvoiceDate = core.InvoiceDate(t.DueDate, card.ClosingDay, card.DueDay)
			t.Installments = in.Installments
			t.InstallmentNum = i + 1
			t.InstallmentID = installmentID
			txs = append(txs, t)
		}
		return txs
	default:
		t := base
		t.ID = uuid.NewString()
		t.DueDate = in.DueDate
		t.InvoiceDate = core.InvoiceDate(in.DueDate, card.ClosingDay, card.DueDay)
		return []core.Transaction{t}
	}
}

// Invoice is one billing cycle of a card: its expenses newest first, the
// total billed, and whether every expense has been settled.
type Invoice struct {
	CreditCardID string
	InvoiceDate  time.Time
	ClosingDay   int
	DueDay       int
	TotalAmount  int64
	IsPaid       bool
	Expenses     []core.Transaction
}

// FetchInvoice returns the invoice a card bills in the given "YYYY-MM"
// month. An invoice with no expenses is empty and unpaid, not an error.
func (s *CreditService) FetchInvoice(ctx context.Context, userID, cardID, month string) (*Invoice, error) {
	card, err := s.store.GetCreditCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	start, _, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}
	invoiceDate := core.InvoiceDateFor(start.Year(), start.Month(), card.DueDay)
	return s.invoiceAt(ctx, userID, card, invoiceDate)
}

// OpenInvoice returns the invoice still accepting charges at the given
// instant.
func (s *CreditService) OpenInvoice(ctx context.Context, userID, cardID string, now time.Time) (*Invoice, error) {
	card, err := s.store.GetCreditCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	return s.invoiceAt(ctx, userID, card, core.OpenInvoiceDate(now, card.ClosingDay, card.DueDay))
}

// ClosedInvoice returns the most recently closed invoice, the cycle
// before the open one.
func (s *CreditService) ClosedInvoice(ctx context.Context, userID, cardID string, now time.Time) (*Invoice, error) {
	card, err := s.store.GetCreditCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	return s.invoiceAt(ctx, userID, card, core.ClosedInvoiceDate(now, card.ClosingDay, card.DueDay))
}

func (s *CreditService) invoiceAt(ctx context.Context, userID string, card *core.CreditCard, invoiceDate time.Time) (*Invoice, error) {
	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{
		UserID:       userID,
		CreditCardID: card.ID,
		InvoiceDate:  invoiceDate,
		Descending:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("list invoice expenses: %w", err)
	}

	var total int64
	paid := len(txs) > 0
	for _, t := range txs {
		total += t.Amount
		if !t.Effectived {
			paid = false
		}
	}
	return &Invoice{
		CreditCardID: card.ID,
		InvoiceDate:  invoiceDate,
		ClosingDay:   card.ClosingDay,
		DueDay:       card.DueDay,
		TotalAmount:  total,
		IsPaid:       paid,
		Expenses:     txs,
	}, nil
}

// PayInvoice settles every pending non-fixed expense on the card's
// invoice for the given month and restores their total to the card
// limit, atomically. Fixed charges are billed monthly forever and are
// settled through their own records, never by an invoice payment.
func (s *CreditService) PayInvoice(ctx context.Context, userID, cardID, month string, now time.Time) (int64, error) {
	card, err := s.store.GetCreditCard(ctx, userID, cardID)
	if err != nil {
		return 0, err
	}
	start, _, err := core.MonthBounds(month)
	if err != nil {
		return 0, err
	}
	invoiceDate := core.InvoiceDateFor(start.Year(), start.Month(), card.DueDay)

	pendingOnly := false
	notFixed := false
	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{
		UserID:       userID,
		CreditCardID: card.ID,
		InvoiceDate:  invoiceDate,
		Effectived:   &pendingOnly,
		IsFixed:      &notFixed,
	})
	if err != nil {
		return 0, fmt.Errorf("list pending expenses: %w", err)
	}
	if len(txs) == 0 {
		return 0, core.ErrNoPendingTransactions
	}

	var total int64
	for _, t := range txs {
		total += t.Amount
	}
	if err := s.store.PayInvoice(ctx, card.ID, invoiceDate, total, now); err != nil {
		return 0, fmt.Errorf("pay invoice: %w", err)
	}

	slog.InfoContext(ctx, "Invoice paid",
		"userId", userID, "creditCardId", card.ID,
		"invoiceDate", invoiceDate.Format("2006-01-02"), "total", total)
	if s.events != nil {
		if err := s.events.PublishInvoicePaid(ctx, userID, card.ID, invoiceDate, total); err != nil {
			slog.WarnContext(ctx, "Failed to publish invoice paid event", "error", err)
		}
	}
	return total, nil
}
