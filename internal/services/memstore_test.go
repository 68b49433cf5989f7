package services

import (
	"context"
	"slices"
	"sort"
	"time"

	"contas/internal/core"
)

// memStore is an in-memory Store used by the service tests. It mirrors
// the relational semantics the services rely on: sentinel errors on
// misses, filter matching, and the balance aggregations.
type memStore struct {
	users      map[string]bool
	accounts   []core.Account
	categories []core.Category
	cards      map[string]*core.CreditCard
	txs        []core.Transaction
	nextCatID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]bool{},
		cards: map[string]*core.CreditCard{},
	}
}

func (m *memStore) addUser(id string) { m.users[id] = true }

func (m *memStore) UserExists(_ context.Context, id string) (bool, error) {
	return m.users[id], nil
}

func (m *memStore) CreateAccount(_ context.Context, a core.Account) error {
	m.accounts = append(m.accounts, a)
	return nil
}

func (m *memStore) GetAccount(_ context.Context, userID, id string) (*core.Account, error) {
	for i := range m.accounts {
		if m.accounts[i].ID == id && m.accounts[i].UserID == userID {
			a := m.accounts[i]
			return &a, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (m *memStore) ListAccounts(_ context.Context, userID string) ([]core.Account, error) {
	var out []core.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) CategoryExists(_ context.Context, userID, name string, t core.TransactionType) (bool, error) {
	for _, c := range m.categories {
		if c.Name == name && c.Type == t && (c.UserID == "" || c.UserID == userID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *core.Category) error {
	m.nextCatID++
	c.ID = m.nextCatID
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memStore) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	var out []core.Category
	for _, c := range m.categories {
		if c.UserID == "" || c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CreateCreditCard(_ context.Context, c core.CreditCard) error {
	cp := c
	m.cards[c.ID] = &cp
	return nil
}

func (m *memStore) GetCreditCard(_ context.Context, userID, id string) (*core.CreditCard, error) {
	c, ok := m.cards[id]
	if !ok || c.UserID != userID {
		return nil, core.ErrCreditCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCreditCards(_ context.Context, userID string) ([]core.CreditCard, error) {
	var out []core.CreditCard
	for _, c := range m.cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) InsertTransactions(_ context.Context, txs []core.Transaction) error {
	m.txs = append(m.txs, txs...)
	return nil
}

func (m *memStore) InsertCreditPurchase(_ context.Context, txs []core.Transaction, cardID string, limitDelta int64) error {
	card, ok := m.cards[cardID]
	if !ok {
		return core.ErrCreditCardNotFound
	}
	m.txs = append(m.txs, txs...)
	card.CurrentLimit -= limitDelta
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, userID, id string, types ...core.TransactionType) (*core.Transaction, error) {
	for i := range m.txs {
		t := m.txs[i]
		if t.ID != id || t.UserID != userID {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, t.Type) {
			continue
		}
		return &t, nil
	}
	return nil, core.ErrTransactionNotFound
}

func (m *memStore) SetTransactionEffectived(_ context.Context, userID, id string, effectived bool, dueDate *time.Time, now time.Time) error {
	for i := range m.txs {
		if m.txs[i].ID == id && m.txs[i].UserID == userID {
			m.txs[i].Effectived = effectived
			if dueDate != nil {
				m.txs[i].DueDate = *dueDate
			}
			m.txs[i].UpdatedAt = now
			return nil
		}
	}
	return core.ErrTransactionNotFound
}

func (m *memStore) ListTransactions(_ context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.txs {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.AccountID != "" && t.AccountID != f.AccountID {
			continue
		}
		if f.CreditCardID != "" && t.CreditCardID != f.CreditCardID {
			continue
		}
		if !f.InvoiceDate.IsZero() && !t.InvoiceDate.Equal(f.InvoiceDate) {
			continue
		}
		if !f.From.IsZero() && t.DueDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && t.DueDate.After(f.To) {
			continue
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, t.Type) {
			continue
		}
		if f.Effectived != nil && t.Effectived != *f.Effectived {
			continue
		}
		if f.IsFixed != nil && t.IsFixed != *f.IsFixed {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Descending {
			return out[i].DueDate.After(out[j].DueDate)
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

func (m *memStore) PayInvoice(_ context.Context, cardID string, invoiceDate time.Time, total int64, now time.Time) error {
	card, ok := m.cards[cardID]
	if !ok {
		return core.ErrCreditCardNotFound
	}
	for i := range m.txs {
		t := &m.txs[i]
		if t.CreditCardID == cardID && t.InvoiceDate.Equal(invoiceDate) && !t.Effectived && !t.IsFixed {
			t.Effectived = true
			t.UpdatedAt = now
		}
	}
	card.CurrentLimit += total
	return nil
}

func (m *memStore) AccountBalances(_ context.Context, userID string, end time.Time, settledOnly bool) ([]core.AccountBalance, error) {
	var out []core.AccountBalance
	for _, a := range m.accounts {
		if a.UserID != userID {
			continue
		}
		balance := a.InitialBalance
		for _, t := range m.txs {
			if t.AccountID != a.ID || t.DueDate.After(end) {
				continue
			}
			if settledOnly && !t.Effectived {
				continue
			}
			balance += core.SignedAmount(t.Type, t.Amount)
		}
		out = append(out, core.AccountBalance{ID: a.ID, Name: a.Name, Balance: balance})
	}
	return out, nil
}

func (m *memStore) AccountOverviews(_ context.Context, userID string, end time.Time) ([]core.AccountOverview, error) {
	var out []core.AccountOverview
	for _, a := range m.accounts {
		if a.UserID != userID {
			continue
		}
		current, expected := a.InitialBalance, a.InitialBalance
		for _, t := range m.txs {
			if t.AccountID != a.ID || t.DueDate.After(end) {
				continue
			}
			expected += core.SignedAmount(t.Type, t.Amount)
			if t.Effectived {
				current += core.SignedAmount(t.Type, t.Amount)
			}
		}
		out = append(out, core.AccountOverview{
			ID: a.ID, Name: a.Name, Type: a.Type,
			CurrentTotalAmount:  current,
			ExpectedTotalAmount: expected,
		})
	}
	return out, nil
}

func (m *memStore) SumAmountInRange(_ context.Context, userID string, t core.TransactionType, from, to time.Time) (int64, error) {
	var sum int64
	for _, tx := range m.txs {
		if tx.UserID == userID && tx.Type == t && !tx.DueDate.Before(from) && !tx.DueDate.After(to) {
			sum += tx.Amount
		}
	}
	return sum, nil
}
