package storage

import (
	"context"
	"fmt"
	"time"

	"contas/internal/core"
)

// signedAmountSQL mirrors core.SignedAmount inside the aggregate query.
const signedAmountSQL = `
CASE t.type
  WHEN 'INCOME' THEN t.amount
  WHEN 'TRANSFER_IN' THEN t.amount
  WHEN 'EXPENSE' THEN -t.amount
  WHEN 'TRANSFER_OUT' THEN -t.amount
  WHEN 'CREDIT' THEN -t.amount
  ELSE 0
END`

// AccountBalances derives each account's balance at end-of-month from
// the ledger: initial balance plus every signed transaction due by the
// bound. With settledOnly, pending transactions are left out (the
// settled/current semantics); without it everything counts (projected).
func (r *SQLiteRepository) AccountBalances(ctx context.Context, userID string, end time.Time, settledOnly bool) ([]core.AccountBalance, error) {
	query := `
SELECT a.id, a.name,
       a.initial_balance + COALESCE(SUM(
         CASE WHEN t.due_date <= ? AND (? = 0 OR t.effectived = 1)
              THEN ` + signedAmountSQL + `
              ELSE 0 END), 0) AS balance
FROM accounts a
LEFT JOIN transactions t ON t.account_id = a.id
WHERE a.user_id = ?
GROUP BY a.id, a.name, a.initial_balance
ORDER BY a.created_at`

	rows, err := r.db.QueryContext(ctx, query, toUnix(end), settledOnly, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate account balances: %w", err)
	}
	defer rows.Close()

	var balances []core.AccountBalance
	for rows.Next() {
		var b core.AccountBalance
		if err := rows.Scan(&b.ID, &b.Name, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan account balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// AccountOverviews computes both readings per account for the accounts
// listing: the settled-only total and the total including pending
// obligations, each bounded by end-of-month.
func (r *SQLiteRepository) AccountOverviews(ctx context.Context, userID string, end time.Time) ([]core.AccountOverview, error) {
	query := `
SELECT a.id, a.name, a.type,
       a.initial_balance + COALESCE(SUM(
         CASE WHEN t.due_date <= ? AND t.effectived = 1
              THEN ` + signedAmountSQL + `
              ELSE 0 END), 0) AS current_total,
       a.initial_balance + COALESCE(SUM(
         CASE WHEN t.due_date <= ?
              THEN ` + signedAmountSQL + `
              ELSE 0 END), 0) AS expected_total
FROM accounts a
LEFT JOIN transactions t ON t.account_id = a.id
WHERE a.user_id = ?
GROUP BY a.id, a.name, a.type, a.initial_balance
ORDER BY a.created_at`

	bound := toUnix(end)
	rows, err := r.db.QueryContext(ctx, query, bound, bound, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate account overviews: %w", err)
	}
	defer rows.Close()

	var overviews []core.AccountOverview
	for rows.Next() {
		var (
			o   core.AccountOverview
			typ string
		)
		if err := rows.Scan(&o.ID, &o.Name, &typ, &o.CurrentTotalAmount, &o.ExpectedTotalAmount); err != nil {
			return nil, fmt.Errorf("scan account overview: %w", err)
		}
		o.Type = core.AccountType(typ)
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

// SumAmountInRange totals one transaction type inside a due-date window,
// settled or not. Used by the month income/expense summary.
func (r *SQLiteRepository) SumAmountInRange(ctx context.Context, userID string, t core.TransactionType, from, to time.Time) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE user_id = ? AND type = ? AND due_date >= ? AND due_date <= ?`,
		userID, string(t), toUnix(from), toUnix(to)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum %s amounts: %w", t, err)
	}
	return sum, nil
}
