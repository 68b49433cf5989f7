package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"contas/internal/amqp"
	"contas/internal/storage"
)

func newTestWorker(t *testing.T) (*AuditWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "contas.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewAuditWorker(repo), repo
}

func TestHandleEventAppendsToJournal(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	msg := amqp.NewTransactionsCreatedMessage("user-1", []string{"tx-1", "tx-2"})
	if err := w.HandleEvent(ctx, msg); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	events, err := repo.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(events))
	}
	got := events[0]
	if got.Kind != amqp.EventTransactionsCreated {
		t.Errorf("Kind = %s, want %s", got.Kind, amqp.EventTransactionsCreated)
	}
	if got.EntityID != "tx-1,tx-2" {
		t.Errorf("EntityID = %s, want tx-1,tx-2", got.EntityID)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", got.UserID)
	}
	if got.Payload == "" {
		t.Error("Payload is empty")
	}
}

func TestEventSubject(t *testing.T) {
	invoiceDate := time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		msg  *amqp.LedgerEventMessage
		want string
	}{
		{"transactions", amqp.NewTransactionsCreatedMessage("u", []string{"a", "b"}), "a,b"},
		{"transfer", amqp.NewTransferCreatedMessage("u", "transfer-9"), "transfer-9"},
		{"invoice", amqp.NewInvoicePaidMessage("u", "card-1", invoiceDate, 14000), "card-1/2025-03-27:14000"},
		{"unknown", &amqp.LedgerEventMessage{Kind: "other"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := eventSubject(tc.msg); got != tc.want {
				t.Errorf("eventSubject() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReportRecentEmptyJournal(t *testing.T) {
	w, _ := newTestWorker(t)
	if err := w.ReportRecent(context.Background(), 5); err != nil {
		t.Errorf("ReportRecent() on empty journal error = %v", err)
	}
}
