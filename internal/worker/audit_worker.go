// Package worker consumes ledger events from AMQP and appends them to
// the audit journal table, giving every mutation a durable trail that
// survives independently of the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contas/internal/amqp"
	"contas/internal/storage"
)

// AuditWorker persists consumed ledger events.
type AuditWorker struct {
	storage *storage.SQLiteRepository
}

func NewAuditWorker(storage *storage.SQLiteRepository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleEvent appends one consumed event to the journal. Returning an
// error requeues the message.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"userId", msg.UserID)

	payload, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	event := storage.LedgerEvent{
		Kind:       msg.Kind,
		EntityID:   eventSubject(msg),
		UserID:     msg.UserID,
		Payload:    string(payload),
		OccurredAt: msg.Timestamp,
		RecordedAt: time.Now().UTC(),
	}
	if err := w.storage.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	return nil
}

// ReportRecent logs the newest journal entries. Runs on a timer so the
// worker's logs show journal activity even when the queue is quiet.
func (w *AuditWorker) ReportRecent(ctx context.Context, limit int) error {
	events, err := w.storage.ListEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}
	if len(events) == 0 {
		slog.InfoContext(ctx, "Audit journal empty")
		return nil
	}

	slog.InfoContext(ctx, "Audit journal snapshot",
		"entries", len(events),
		"newestKind", events[0].Kind,
		"newestAt", events[0].OccurredAt)
	return nil
}

// eventSubject renders the event's payload into a single journal column.
func eventSubject(msg *amqp.LedgerEventMessage) string {
	switch msg.Kind {
	case amqp.EventTransactionsCreated:
		return strings.Join(msg.TransactionIDs, ",")
	case amqp.EventTransferCreated:
		return msg.TransferID
	case amqp.EventInvoicePaid:
		return fmt.Sprintf("%s/%s:%d", msg.CreditCardID, msg.InvoiceDate, msg.TotalAmount)
	default:
		return ""
	}
}
