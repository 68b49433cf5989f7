package services

import (
	"context"
	"fmt"
	"time"

	"contas/internal/core"
)

// BalanceService answers the aggregation queries: total balance for a
// month with its settled/current/projected label, per-account overviews,
// and the income/expense month summary.
type BalanceService struct {
	store Store
}

func NewBalanceService(store Store) *BalanceService {
	return &BalanceService{store: store}
}

// TotalBalance is the sum of all account balances up to the end of a
// month, labelled by how the month relates to now.
type TotalBalance struct {
	Kind     core.BalanceKind
	Amount   int64
	Accounts []core.AccountBalance
}

// TotalAmount computes every account's balance at the end of the given
// "YYYY-MM" month. For the current month and past months only settled
// transactions count; for future months pending ones count too, which
// makes the figure a projection.
func (s *BalanceService) TotalAmount(ctx context.Context, userID, month string, now time.Time) (*TotalBalance, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	_, end, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	settledOnly := core.IsCurrentOrPastMonth(end, now)
	accounts, err := s.store.AccountBalances(ctx, userID, end, settledOnly)
	if err != nil {
		return nil, fmt.Errorf("aggregate balances: %w", err)
	}

	var total int64
	for _, a := range accounts {
		total += a.Balance
	}
	return &TotalBalance{
		Kind:     core.BalanceKindFor(end, now),
		Amount:   total,
		Accounts: accounts,
	}, nil
}

// AccountsOverview returns, for every account, both the settled balance
// and the balance expected once every transaction up to the end of the
// month settles.
func (s *BalanceService) AccountsOverview(ctx context.Context, userID, month string) ([]core.AccountOverview, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	_, end, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}
	overviews, err := s.store.AccountOverviews(ctx, userID, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate overviews: %w", err)
	}
	return overviews, nil
}

// MonthSummary totals the month's income and expense regardless of
// settlement.
func (s *BalanceService) MonthSummary(ctx context.Context, userID, month string) (*core.MonthSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	start, end, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}
	income, err := s.store.SumAmountInRange(ctx, userID, core.TransactionIncome, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumAmountInRange(ctx, userID, core.TransactionExpense, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum expense: %w", err)
	}
	return &core.MonthSummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income - expense,
	}, nil
}

func (s *BalanceService) requireUser(ctx context.Context, userID string) error {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return core.ErrUserNotFound
	}
	return nil
}
