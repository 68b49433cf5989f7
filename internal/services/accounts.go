package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"contas/internal/core"
)

// AccountService manages the reference data the ledger hangs off:
// accounts, categories and credit cards.
type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store: store}
}

type AccountInput struct {
	UserID         string
	Name           string
	Type           core.AccountType
	InitialBalance int64
}

func (s *AccountService) CreateAccount(ctx context.Context, in AccountInput, now time.Time) (*core.Account, error) {
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	a := core.Account{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		Name:           in.Name,
		Type:           in.Type,
		InitialBalance: in.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "userId", in.UserID, "accountId", a.ID, "name", a.Name)
	return &a, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListAccounts(ctx, userID)
}

// CreateCategory normalizes the name before checking uniqueness, so
// "mercado" and "MERCADO" are the same category.
func (s *AccountService) CreateCategory(ctx context.Context, userID, name string, t core.TransactionType) (*core.Category, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if t != core.TransactionIncome && t != core.TransactionExpense {
		return nil, fmt.Errorf("%w: categories label INCOME or EXPENSE", core.ErrInvalidCategory)
	}
	name = NormalizeCategoryName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", core.ErrInvalidCategory)
	}

	exists, err := s.store.CategoryExists(ctx, userID, name, t)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if exists {
		return nil, core.ErrDuplicateCategory
	}

	c := core.Category{UserID: userID, Name: name, Type: t}
	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "userId", userID, "name", name, "type", t)
	return &c, nil
}

func (s *AccountService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, userID)
}

type CreditCardInput struct {
	UserID       string
	AccountID    string
	Name         string
	ClosingDay   int
	DueDay       int
	InitialLimit int64
}

// CreateCreditCard registers a card against one of the user's accounts.
// The available limit starts at the full initial limit.
func (s *AccountService) CreateCreditCard(ctx context.Context, in CreditCardInput, now time.Time) (*core.CreditCard, error) {
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, in.UserID, in.AccountID); err != nil {
		return nil, err
	}
	c := core.CreditCard{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		AccountID:    in.AccountID,
		Name:         in.Name,
		ClosingDay:   in.ClosingDay,
		DueDay:       in.DueDay,
		InitialLimit: in.InitialLimit,
		CurrentLimit: in.InitialLimit,
		CreatedAt:    now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateCreditCard(ctx, c); err != nil {
		return nil, fmt.Errorf("create credit card: %w", err)
	}
	slog.InfoContext(ctx, "Credit card created", "userId", in.UserID, "creditCardId", c.ID, "name", c.Name)
	return &c, nil
}

func (s *AccountService) ListCreditCards(ctx context.Context, userID string) ([]core.CreditCard, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListCreditCards(ctx, userID)
}

func (s *AccountService) requireUser(ctx context.Context, userID string) error {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return core.ErrUserNotFound
	}
	return nil
}

// NormalizeCategoryName trims the name and folds its case: first letter
// upper, the rest lower.
func NormalizeCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
