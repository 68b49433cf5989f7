package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

// LedgerService creates plain income and expense transactions, expanding
// fixed and recurring requests into their full series up front, and
// toggles settlement on individual records.
type LedgerService struct {
	store  Store
	events EventPublisher
}

func NewLedgerService(store Store, events EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// TransactionInput is a request to record an income or expense.
type TransactionInput struct {
	UserID       string
	AccountID    string
	CategoryID   int64
	Description  string
	Observations string
	Amount       int64
	Type         core.TransactionType
	DueDate      time.Time
	Effectived   bool
	Series       core.SeriesPolicy
}

// CreateTransaction validates the request, expands it into one record
// per occurrence and persists the whole series atomically. Fixed and
// recurring records are always created unsettled; a single transaction
// may be born settled only when its due date is not in the future.
func (s *LedgerService) CreateTransaction(ctx context.Context, in TransactionInput, now time.Time) ([]core.Transaction, error) {
	if err := core.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Type != core.TransactionIncome && in.Type != core.TransactionExpense {
		return nil, fmt.Errorf("%w: type %s", core.ErrInvalidSeries, in.Type)
	}
	if err := in.Series.Validate(); err != nil {
		return nil, err
	}
	if in.Series.Kind == core.SeriesInstallment {
		return nil, fmt.Errorf("%w: installments require a credit card", core.ErrInvalidSeries)
	}

	ok, err := s.store.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, core.ErrUserNotFound
	}
	if _, err := s.store.GetAccount(ctx, in.UserID, in.AccountID); err != nil {
		return nil, err
	}
	if in.Series.Kind == core.SeriesSingle && in.Effectived && in.DueDate.After(now) {
		return nil, core.ErrFutureEffectiveDate
	}

	txs := expandSeries(in, now)
	if err := s.store.InsertTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("insert transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions created",
		"userId", in.UserID, "type", in.Type, "count", len(txs))
	s.publishCreated(ctx, in.UserID, txs)
	return txs, nil
}

func expandSeries(in TransactionInput, now time.Time) []core.Transaction {
	n := in.Series.Length()
	txs := make([]core.Transaction, 0, n)
	base := core.Transaction{
		UserID:       in.UserID,
		AccountID:    in.AccountID,
		CategoryID:   in.CategoryID,
		Description:  in.Description,
		Observations: in.Observations,
		Amount:       in.Amount,
		Type:         in.Type,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch in.Series.Kind {
	case core.SeriesFixed:
		fixedID := uuid.NewString()
		for i := 0; i < n; i++ {
			t := base
			t.ID = uuid.NewString()
			t.DueDate = core.AddMonths(in.DueDate, i)
			t.IsFixed = true
			t.FixedID = fixedID
			txs = append(txs, t)
		}
	case core.SeriesRecurring:
		recurrenceID := uuid.NewString()
		for i := 0; i < n; i++ {
			t := base
			t.ID = uuid.NewString()
			t.DueDate = core.AddMonths(in.DueDate, i)
			t.IsRecurring = true
			t.RecurringFor = in.Series.Count
			t.RecurrenceID = recurrenceID
			txs = append(txs, t)
		}
	default:
		t := base
		t.ID = uuid.NewString()
		t.DueDate = in.DueDate
		t.Effectived = in.Effectived
		txs = append(txs, t)
	}
	return txs
}

// ToggleEffectived flips the settlement flag on an income or expense
// transaction, optionally moving its due date in the same write.
func (s *LedgerService) ToggleEffectived(ctx context.Context, userID, id string, dueDate *time.Time, now time.Time) (*core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, userID, id, core.TransactionIncome, core.TransactionExpense)
	if err != nil {
		return nil, err
	}
	next := !t.Effectived
	if err := s.store.SetTransactionEffectived(ctx, userID, id, next, dueDate, now); err != nil {
		return nil, err
	}
	t.Effectived = next
	if dueDate != nil {
		t.DueDate = *dueDate
	}
	t.UpdatedAt = now
	slog.InfoContext(ctx, "Transaction settlement toggled",
		"userId", userID, "transactionId", id, "effectived", next)
	return t, nil
}

// MonthFeed is everything an overview screen needs for one month: the
// transactions due inside it, newest first, plus the income/expense
// summary.
type MonthFeed struct {
	Transactions []core.Transaction
	Summary      core.MonthSummary
}

// FetchMonth lists every transaction whose due date falls inside the
// given "YYYY-MM" month together with the month's summary. The summary
// counts settled and pending records alike.
func (s *LedgerService) FetchMonth(ctx context.Context, userID, month string) (*MonthFeed, error) {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, core.ErrUserNotFound
	}
	start, end, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, core.TransactionFilter{
		UserID:     userID,
		From:       start,
		To:         end,
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	income, err := s.store.SumAmountInRange(ctx, userID, core.TransactionIncome, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumAmountInRange(ctx, userID, core.TransactionExpense, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum expense: %w", err)
	}

	return &MonthFeed{
		Transactions: txs,
		Summary: core.MonthSummary{
			TotalIncome:  income,
			TotalExpense: expense,
			Balance:      income - expense,
		},
	}, nil
}

func (s *LedgerService) publishCreated(ctx context.Context, userID string, txs []core.Transaction) {
	if s.events == nil {
		return
	}
	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}
	if err := s.events.PublishTransactionsCreated(ctx, userID, ids); err != nil {
		slog.WarnContext(ctx, "Failed to publish transactions created event", "error", err)
	}
}
