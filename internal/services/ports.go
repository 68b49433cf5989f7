// Package services holds the ledger's business operations: expanding a
// creation request into a transaction series, mapping credit purchases
// onto billing-cycle invoices, pairing transfers, and aggregating the
// three balance semantics. Services read and write through the Store
// interface and announce committed changes on the event stream.
package services

import (
	"context"
	"time"

	"contas/internal/core"
)

// Store is the durable collaborator the services consume. Compound
// writes (InsertTransactions, InsertCreditPurchase, PayInvoice) must be
// atomic: all records committed or none.
type Store interface {
	UserExists(ctx context.Context, id string) (bool, error)

	CreateAccount(ctx context.Context, a core.Account) error
	GetAccount(ctx context.Context, userID, id string) (*core.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]core.Account, error)

	CategoryExists(ctx context.Context, userID, name string, t core.TransactionType) (bool, error)
	CreateCategory(ctx context.Context, c *core.Category) error
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)

	CreateCreditCard(ctx context.Context, c core.CreditCard) error
	GetCreditCard(ctx context.Context, userID, id string) (*core.CreditCard, error)
	ListCreditCards(ctx context.Context, userID string) ([]core.CreditCard, error)

	InsertTransactions(ctx context.Context, txs []core.Transaction) error
	InsertCreditPurchase(ctx context.Context, txs []core.Transaction, cardID string, limitDelta int64) error
	GetTransaction(ctx context.Context, userID, id string, types ...core.TransactionType) (*core.Transaction, error)
	SetTransactionEffectived(ctx context.Context, userID, id string, effectived bool, dueDate *time.Time, now time.Time) error
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	PayInvoice(ctx context.Context, cardID string, invoiceDate time.Time, total int64, now time.Time) error

	AccountBalances(ctx context.Context, userID string, end time.Time, settledOnly bool) ([]core.AccountBalance, error)
	AccountOverviews(ctx context.Context, userID string, end time.Time) ([]core.AccountOverview, error)
	SumAmountInRange(ctx context.Context, userID string, t core.TransactionType, from, to time.Time) (int64, error)
}

// EventPublisher announces committed ledger mutations. A nil publisher
// is allowed everywhere; publishing failures are logged, never returned,
// so a broker outage cannot fail a write that already committed.
type EventPublisher interface {
	PublishTransactionsCreated(ctx context.Context, userID string, ids []string) error
	PublishTransferCreated(ctx context.Context, userID, transferID string) error
	PublishInvoicePaid(ctx context.Context, userID, cardID string, invoiceDate time.Time, total int64) error
}
