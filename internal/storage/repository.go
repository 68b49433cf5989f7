// Package storage is the durable side of the ledger: a SQLite database
// reached through database/sql, with the schema managed by embedded
// golang-migrate migrations. Every multi-record mutation the services
// need (series insertion, transfer pairs, invoice settlement) runs here
// inside a single *sql.Tx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"contas/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Serialize writers; SQLite handles one writer at a time anyway and
	// this avoids SQLITE_BUSY under concurrent invoice payments.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// toUnix stores dates as UTC Unix seconds so equality filters (invoice
// dates) behave exactly.
func toUnix(t time.Time) int64 { return t.UTC().Unix() }

func fromUnix(s int64) time.Time { return time.Unix(s, 0).UTC() }

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

func nullUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toUnix(t), Valid: true}
}

// CreateUser registers an owner record. Kept for seeding and tests; user
// registration itself belongs to the external request layer.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, toUnix(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, type, initial_balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, string(a.Type), a.InitialBalance, toUnix(a.CreatedAt), toUnix(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "id", a.ID, "user_id", a.UserID, "type", a.Type)
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, id string) (*core.Account, error) {
	var (
		a                core.Account
		typ              string
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, initial_balance, created_at, updated_at
		 FROM accounts WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &typ, &a.InitialBalance, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Type = core.AccountType(typ)
	a.CreatedAt = fromUnix(created)
	a.UpdatedAt = fromUnix(updated)
	return &a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, initial_balance, created_at, updated_at
		 FROM accounts WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var (
			a                core.Account
			typ              string
			created, updated int64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &typ, &a.InitialBalance, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(typ)
		a.CreatedAt = fromUnix(created)
		a.UpdatedAt = fromUnix(updated)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) CategoryExists(ctx context.Context, userID, name string, t core.TransactionType) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM categories WHERE user_id = ? AND name = ? AND type = ?`,
		userID, name, string(t)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c *core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
		nullStr(c.UserID), c.Name, string(c.Type))
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category insert id: %w", err)
	}
	c.ID = id
	return nil
}

// ListCategories returns the global categories plus the user's own.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id, ''), name, type FROM categories
		 WHERE user_id IS NULL OR user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			c   core.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) CreateCreditCard(ctx context.Context, c core.CreditCard) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_cards (id, user_id, account_id, name, closing_day, due_day, initial_limit, current_limit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.AccountID, c.Name, c.ClosingDay, c.DueDay, c.InitialLimit, c.CurrentLimit, toUnix(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create credit card: %w", err)
	}
	slog.InfoContext(ctx, "Credit card created", "id", c.ID, "user_id", c.UserID, "closing_day", c.ClosingDay, "due_day", c.DueDay)
	return nil
}

func (r *SQLiteRepository) GetCreditCard(ctx context.Context, userID, id string) (*core.CreditCard, error) {
	var (
		c       core.CreditCard
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, account_id, name, closing_day, due_day, initial_limit, current_limit, created_at
		 FROM credit_cards WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&c.ID, &c.UserID, &c.AccountID, &c.Name, &c.ClosingDay, &c.DueDay, &c.InitialLimit, &c.CurrentLimit, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrCreditCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credit card: %w", err)
	}
	c.CreatedAt = fromUnix(created)
	return &c, nil
}

func (r *SQLiteRepository) ListCreditCards(ctx context.Context, userID string) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, account_id, name, closing_day, due_day, initial_limit, current_limit, created_at
		 FROM credit_cards WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	var cards []core.CreditCard
	for rows.Next() {
		var (
			c       core.CreditCard
			created int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.AccountID, &c.Name, &c.ClosingDay, &c.DueDay, &c.InitialLimit, &c.CurrentLimit, &created); err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		c.CreatedAt = fromUnix(created)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
