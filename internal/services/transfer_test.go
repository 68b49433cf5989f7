package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contas/internal/core"
)

func TestCreateTransfer(t *testing.T) {
	store := newMemStore()
	seedAccount(t, store, "u1", "a1", 100000)
	seedAccount(t, store, "u1", "a2", 0)
	svc := NewTransferService(store, nil)
	now := day(2025, time.April, 10)

	pair, err := svc.Create(context.Background(), TransferInput{
		UserID: "u1", SourceAccountID: "a1", TargetAccountID: "a2",
		Amount: 25000, DueDate: day(2025, time.April, 10),
	}, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(pair) != 2 {
		t.Fatalf("got %d records, want 2", len(pair))
	}

	out, in := pair[0], pair[1]
	if out.Type != core.TransactionTransferOut || in.Type != core.TransactionTransferIn {
		t.Fatalf("leg types %s/%s", out.Type, in.Type)
	}
	if out.Description != TransferOutDescription || in.Description != TransferInDescription {
		t.Errorf("descriptions %q/%q", out.Description, in.Description)
	}
	if out.TransferID == "" || out.TransferID != in.TransferID {
		t.Error("legs must share a transfer id")
	}
	if out.AccountID != "a1" || out.TargetAccountID != "a2" {
		t.Errorf("outgoing leg accounts %s->%s", out.AccountID, out.TargetAccountID)
	}
	if in.AccountID != "a2" || in.TargetAccountID != "a1" {
		t.Errorf("incoming leg accounts %s->%s", in.AccountID, in.TargetAccountID)
	}
	if !out.Effectived || !in.Effectived {
		t.Error("both legs settle immediately")
	}
	if out.Amount != 25000 || in.Amount != 25000 {
		t.Errorf("leg amounts %d/%d, want 25000", out.Amount, in.Amount)
	}

	// The pair nets to zero across the two accounts.
	balances, err := store.AccountBalances(context.Background(), "u1", day(2025, time.April, 30), true)
	if err != nil {
		t.Fatalf("AccountBalances: %v", err)
	}
	var total int64
	for _, b := range balances {
		total += b.Balance
	}
	if total != 100000 {
		t.Errorf("combined balance %d, want 100000", total)
	}
}

func TestCreateTransferValidation(t *testing.T) {
	store := newMemStore()
	seedAccount(t, store, "u1", "a1", 0)
	seedAccount(t, store, "u1", "a2", 0)
	svc := NewTransferService(store, nil)
	now := day(2025, time.April, 10)

	tests := []struct {
		name string
		in   TransferInput
		want error
	}{
		{
			name: "future dated",
			in: TransferInput{UserID: "u1", SourceAccountID: "a1",
				TargetAccountID: "a2", Amount: 100, DueDate: day(2025, time.April, 11)},
			want: core.ErrFutureDatedTransfer,
		},
		{
			name: "same account",
			in: TransferInput{UserID: "u1", SourceAccountID: "a1",
				TargetAccountID: "a1", Amount: 100, DueDate: now},
			want: core.ErrSameAccountTransfer,
		},
		{
			name: "unknown source",
			in: TransferInput{UserID: "u1", SourceAccountID: "ghost",
				TargetAccountID: "a2", Amount: 100, DueDate: now},
			want: core.ErrAccountNotFound,
		},
		{
			name: "unknown target",
			in: TransferInput{UserID: "u1", SourceAccountID: "a1",
				TargetAccountID: "ghost", Amount: 100, DueDate: now},
			want: core.ErrAccountNotFound,
		},
		{
			name: "unknown user",
			in: TransferInput{UserID: "ghost", SourceAccountID: "a1",
				TargetAccountID: "a2", Amount: 100, DueDate: now},
			want: core.ErrUserNotFound,
		},
		{
			name: "zero amount",
			in: TransferInput{UserID: "u1", SourceAccountID: "a1",
				TargetAccountID: "a2", Amount: 0, DueDate: now},
			want: core.ErrInvalidAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in, now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if len(store.txs) != 0 {
				t.Fatal("no legs should be written on rejection")
			}
		})
	}
}
