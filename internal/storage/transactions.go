package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contas/internal/core"
)

const insertTransactionSQL = `
INSERT INTO transactions (
  id, user_id, account_id, target_account_id, credit_card_id, category_id,
  description, observations, amount, type, due_date, invoice_date,
  effectived, is_fixed, fixed_id, is_recurring, recurring_for, recurrence_id,
  installments, installment_num, installment_id, transfer_id, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertTransaction(ctx context.Context, tx *sql.Tx, t core.Transaction) error {
	_, err := tx.ExecContext(ctx, insertTransactionSQL,
		t.ID, t.UserID, t.AccountID, nullStr(t.TargetAccountID), nullStr(t.CreditCardID), nullInt(t.CategoryID),
		t.Description, t.Observations, t.Amount, string(t.Type), toUnix(t.DueDate), nullUnix(t.InvoiceDate),
		t.Effectived, t.IsFixed, nullStr(t.FixedID), t.IsRecurring, nullInt(int64(t.RecurringFor)), nullStr(t.RecurrenceID),
		nullInt(int64(t.Installments)), nullInt(int64(t.InstallmentNum)), nullStr(t.InstallmentID), nullStr(t.TransferID),
		toUnix(t.CreatedAt), toUnix(t.UpdatedAt))
	return err
}

// InsertTransactions persists a generated series (or a transfer pair) in
// one transaction: either every record lands or none do.
func (r *SQLiteRepository) InsertTransactions(ctx context.Context, txs []core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range txs {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions persisted", "count", len(txs), "user_id", txs[0].UserID)
	return nil
}

// InsertCreditPurchase persists the records of a credit purchase and
// debits the card's available limit in the same transaction. limitDelta
// is the amount to subtract: the full total for single and installment
// purchases, one month's charge for fixed ones.
func (r *SQLiteRepository) InsertCreditPurchase(ctx context.Context, txs []core.Transaction, cardID string, limitDelta int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range txs {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return fmt.Errorf("insert credit transaction %s: %w", t.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE credit_cards SET current_limit = current_limit - ? WHERE id = ?`,
		limitDelta, cardID); err != nil {
		return fmt.Errorf("debit card limit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credit purchase: %w", err)
	}

	slog.InfoContext(ctx, "Credit purchase persisted", "card_id", cardID, "records", len(txs), "limit_delta", limitDelta)
	return nil
}

// GetTransaction fetches one of the user's transactions, optionally
// restricted to a set of types.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string, types ...core.TransactionType) (*core.Transaction, error) {
	query := selectTransactionSQL + ` WHERE user_id = ? AND id = ?`
	args := []any{userID, id}
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += ` AND type IN (` + strings.Join(placeholders, ", ") + `)`
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// SetTransactionEffectived flips the settled flag and optionally rewrites
// the due date (the settle action lets the user correct it).
func (r *SQLiteRepository) SetTransactionEffectived(ctx context.Context, userID, id string, effectived bool, dueDate *time.Time, now time.Time) error {
	var res sql.Result
	var err error
	if dueDate != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE transactions SET effectived = ?, due_date = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
			effectived, toUnix(*dueDate), toUnix(now), userID, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE transactions SET effectived = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
			effectived, toUnix(now), userID, id)
	}
	if err != nil {
		return fmt.Errorf("update transaction effectived: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

const selectTransactionSQL = `
SELECT id, user_id, account_id, COALESCE(target_account_id, ''), COALESCE(credit_card_id, ''),
       COALESCE(category_id, 0), description, observations, amount, type, due_date,
       COALESCE(invoice_date, 0), effectived, is_fixed, COALESCE(fixed_id, ''),
       is_recurring, COALESCE(recurring_for, 0), COALESCE(recurrence_id, ''),
       COALESCE(installments, 0), COALESCE(installment_num, 0), COALESCE(installment_id, ''),
       COALESCE(transfer_id, ''), created_at, updated_at
FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t                         core.Transaction
		typ                       string
		due, invoice, created, up int64
	)
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.TargetAccountID, &t.CreditCardID,
		&t.CategoryID, &t.Description, &t.Observations, &t.Amount, &typ, &due,
		&invoice, &t.Effectived, &t.IsFixed, &t.FixedID,
		&t.IsRecurring, &t.RecurringFor, &t.RecurrenceID,
		&t.Installments, &t.InstallmentNum, &t.InstallmentID,
		&t.TransferID, &created, &up)
	if err != nil {
		return nil, err
	}
	t.Type = core.TransactionType(typ)
	t.DueDate = fromUnix(due)
	if invoice != 0 {
		t.InvoiceDate = fromUnix(invoice)
	}
	t.CreatedAt = fromUnix(created)
	t.UpdatedAt = fromUnix(up)
	return &t, nil
}

// ListTransactions reads ledger entries matching the filter, ordered by
// due date.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	var where []string
	var args []any

	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CreditCardID != "" {
		where = append(where, "credit_card_id = ?")
		args = append(args, f.CreditCardID)
	}
	if !f.InvoiceDate.IsZero() {
		where = append(where, "invoice_date = ?")
		args = append(args, toUnix(f.InvoiceDate))
	}
	if !f.From.IsZero() {
		where = append(where, "due_date >= ?")
		args = append(args, toUnix(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "due_date <= ?")
		args = append(args, toUnix(f.To))
	}
	if len(f.Types) > 0 {
		placeholders := make([]string, len(f.Types))
		for i, t := range f.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "type IN ("+strings.Join(placeholders, ", ")+")")
	}
	if f.Effectived != nil {
		where = append(where, "effectived = ?")
		args = append(args, *f.Effectived)
	}
	if f.IsFixed != nil {
		where = append(where, "is_fixed = ?")
		args = append(args, *f.IsFixed)
	}

	query := selectTransactionSQL
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	order := " ORDER BY due_date, created_at"
	if f.Descending {
		order = " ORDER BY due_date DESC, created_at DESC"
	}
	query += order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// PayInvoice settles every pending non-fixed charge of the card's
// invoice and returns the paid amount to the card's available limit, as
// one atomic operation. Fixed charges settle through the normal settle
// action instead.
func (r *SQLiteRepository) PayInvoice(ctx context.Context, cardID string, invoiceDate time.Time, total int64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE transactions SET effectived = 1, updated_at = ?
		 WHERE credit_card_id = ? AND invoice_date = ? AND effectived = 0 AND is_fixed = 0`,
		toUnix(now), cardID, toUnix(invoiceDate)); err != nil {
		return fmt.Errorf("settle invoice transactions: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE credit_cards SET current_limit = current_limit + ? WHERE id = ?`,
		total, cardID); err != nil {
		return fmt.Errorf("restore card limit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice payment: %w", err)
	}

	slog.InfoContext(ctx, "Invoice paid", "card_id", cardID, "invoice_date", invoiceDate.Format("2006-01-02"), "total", total)
	return nil
}
