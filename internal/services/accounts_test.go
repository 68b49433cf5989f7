package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contas/internal/core"
)

func TestCreateAccount(t *testing.T) {
	store := newMemStore()
	store.addUser("u1")
	svc := NewAccountService(store)
	now := day(2025, time.January, 1)

	a, err := svc.CreateAccount(context.Background(), AccountInput{
		UserID: "u1", Name: "Carteira", Type: core.AccountWallet, InitialBalance: 5000,
	}, now)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if a.ID == "" {
		t.Error("account id not assigned")
	}

	if _, err := svc.CreateAccount(context.Background(), AccountInput{
		UserID: "ghost", Name: "X", Type: core.AccountBank,
	}, now); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("unknown user: got %v, want ErrUserNotFound", err)
	}
	if _, err := svc.CreateAccount(context.Background(), AccountInput{
		UserID: "u1", Name: "X", Type: "SAVINGS",
	}, now); err == nil {
		t.Error("unknown account type accepted")
	}
}

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"mercado", "Mercado"},
		{"MERCADO", "Mercado"},
		{"  saúde  ", "Saúde"},
		{"éducação", "Éducação"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCategoryName(tt.in); got != tt.want {
			t.Errorf("NormalizeCategoryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateCategory(t *testing.T) {
	store := newMemStore()
	store.addUser("u1")
	svc := NewAccountService(store)

	c, err := svc.CreateCategory(context.Background(), "u1", "mercado", core.TransactionExpense)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Name != "Mercado" {
		t.Errorf("name %q, want normalized %q", c.Name, "Mercado")
	}
	if c.ID == 0 {
		t.Error("category id not assigned")
	}

	// Same name, different case: still a duplicate.
	if _, err := svc.CreateCategory(context.Background(), "u1", "MERCADO", core.TransactionExpense); !errors.Is(err, core.ErrDuplicateCategory) {
		t.Errorf("duplicate: got %v, want ErrDuplicateCategory", err)
	}
	// Same name for the other direction is a different category.
	if _, err := svc.CreateCategory(context.Background(), "u1", "mercado", core.TransactionIncome); err != nil {
		t.Errorf("same name as INCOME: %v", err)
	}
	if _, err := svc.CreateCategory(context.Background(), "u1", "frete", core.TransactionCredit); !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("credit category: got %v, want ErrInvalidCategory", err)
	}
	if _, err := svc.CreateCategory(context.Background(), "u1", "   ", core.TransactionExpense); !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("blank name: got %v, want ErrInvalidCategory", err)
	}
}

func TestListCategoriesMergesGlobal(t *testing.T) {
	store := newMemStore()
	store.addUser("u1")
	store.addUser("u2")
	store.categories = append(store.categories,
		core.Category{ID: 1, Name: "Salário", Type: core.TransactionIncome},
	)
	svc := NewAccountService(store)

	if _, err := svc.CreateCategory(context.Background(), "u2", "hobby", core.TransactionExpense); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	got, err := svc.ListCategories(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Salário" {
		t.Errorf("u1 should see only the global category, got %+v", got)
	}
}

func TestCreateCreditCard(t *testing.T) {
	store := newMemStore()
	seedAccount(t, store, "u1", "a1", 0)
	svc := NewAccountService(store)
	now := day(2025, time.January, 1)

	c, err := svc.CreateCreditCard(context.Background(), CreditCardInput{
		UserID: "u1", AccountID: "a1", Name: "Visa",
		ClosingDay: 20, DueDay: 27, InitialLimit: 500000,
	}, now)
	if err != nil {
		t.Fatalf("CreateCreditCard: %v", err)
	}
	if c.CurrentLimit != c.InitialLimit {
		t.Errorf("available limit %d, want the full initial limit %d", c.CurrentLimit, c.InitialLimit)
	}

	if _, err := svc.CreateCreditCard(context.Background(), CreditCardInput{
		UserID: "u1", AccountID: "ghost", Name: "X",
		ClosingDay: 20, DueDay: 27, InitialLimit: 1000,
	}, now); !errors.Is(err, core.ErrAccountNotFound) {
		t.Errorf("unknown account: got %v, want ErrAccountNotFound", err)
	}
	if _, err := svc.CreateCreditCard(context.Background(), CreditCardInput{
		UserID: "u1", AccountID: "a1", Name: "X",
		ClosingDay: 31, DueDay: 27, InitialLimit: 1000,
	}, now); !errors.Is(err, core.ErrInvalidBillingDay) {
		t.Errorf("closing day 31: got %v, want ErrInvalidBillingDay", err)
	}
}
