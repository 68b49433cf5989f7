package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	AccountBank   AccountType = "BANK"
	AccountWallet AccountType = "WALLET"
)

const (
	TransactionIncome      TransactionType = "INCOME"
	TransactionExpense     TransactionType = "EXPENSE"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionCredit      TransactionType = "CREDIT"
)

type (
	AccountType     string
	TransactionType string

	// User is the ledger's owner record. Registration and authentication
	// live in the external request layer; the core only checks existence
	// and ownership.
	User struct {
		ID        string
		Name      string
		Email     string
		CreatedAt time.Time
	}

	// Account holds money for a user. Balances are derived from the
	// transaction ledger on demand; only the initial balance is stored.
	Account struct {
		ID             string
		UserID         string
		Name           string
		Type           AccountType
		InitialBalance int64 // cents
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Category labels INCOME/EXPENSE transactions. UserID is empty for
	// global categories shared by every user.
	Category struct {
		ID     int64
		UserID string
		Name   string
		Type   TransactionType
	}

	// CreditCard bills an account monthly. CurrentLimit is denormalized:
	// it shrinks when a CREDIT transaction posts and grows back when the
	// invoice is paid, always inside the same storage transaction.
	CreditCard struct {
		ID           string
		UserID       string
		AccountID    string
		Name         string
		ClosingDay   int
		DueDay       int
		InitialLimit int64 // cents
		CurrentLimit int64 // cents
		CreatedAt    time.Time
	}

	// Transaction is one ledger entry. Amount is always non-negative;
	// the sign is implied by Type. The *ID group fields tie together the
	// records of a fixed, recurring, installment or transfer series.
	Transaction struct {
		ID              string
		UserID          string
		AccountID       string
		TargetAccountID string // transfers only: the other account
		CreditCardID    string
		CategoryID      int64
		Description     string
		Observations    string
		Amount          int64 // cents, >= 0
		Type            TransactionType
		DueDate         time.Time
		InvoiceDate     time.Time // credit only; zero otherwise
		Effectived      bool
		IsFixed         bool
		FixedID         string
		IsRecurring     bool
		RecurringFor    int
		RecurrenceID    string
		Installments    int
		InstallmentNum  int
		InstallmentID   string
		TransferID      string
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	// TransactionFilter narrows ledger reads. Zero values mean "any".
	TransactionFilter struct {
		UserID       string
		AccountID    string
		CreditCardID string
		InvoiceDate  time.Time
		From         time.Time
		To           time.Time
		Types        []TransactionType
		Effectived   *bool
		IsFixed      *bool
		Descending   bool // order by dueDate descending instead of ascending
	}

	// AccountBalance is one account's derived balance for a query month.
	AccountBalance struct {
		ID      string
		Name    string
		Balance int64
	}

	// AccountOverview carries both balance readings for the accounts
	// listing: settled-only and including pending obligations.
	AccountOverview struct {
		ID                  string
		Name                string
		Type                AccountType
		CurrentTotalAmount  int64
		ExpectedTotalAmount int64
	}

	// MonthSummary sums a month's INCOME against its EXPENSE.
	MonthSummary struct {
		TotalIncome  int64
		TotalExpense int64
		Balance      int64
	}
)

var (
	ErrInvalidMonthFormat    = errors.New("invalid month format, want YYYY-MM")
	ErrInvalidAccount        = errors.New("invalid account")
	ErrUserNotFound          = errors.New("user not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrCreditCardNotFound    = errors.New("credit card not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrFutureEffectiveDate   = errors.New("cannot settle a future-dated transaction")
	ErrFutureDatedTransfer   = errors.New("transfers cannot be dated in the future")
	ErrSameAccountTransfer   = errors.New("source and target accounts must differ")
	ErrNoPendingTransactions = errors.New("no pending transactions for invoice")
	ErrDuplicateCategory     = errors.New("category already exists")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidSeries         = errors.New("invalid series policy")
	ErrInvalidBillingDay     = errors.New("billing day must be between 1 and 30")
)

func (a Account) Validate() error {
	if a.UserID == "" || a.Name == "" {
		return fmt.Errorf("%w: user and name are required", ErrInvalidAccount)
	}
	if a.Type != AccountBank && a.Type != AccountWallet {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, a.Type)
	}
	return nil
}

func (c CreditCard) Validate() error {
	if c.ClosingDay < 1 || c.ClosingDay > 30 {
		return ErrInvalidBillingDay
	}
	if c.DueDay < 1 || c.DueDay > 30 {
		return ErrInvalidBillingDay
	}
	if c.InitialLimit <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
