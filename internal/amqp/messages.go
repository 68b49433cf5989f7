package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the ledger stream.
const (
	EventTransactionsCreated = "transactions.created"
	EventTransferCreated     = "transfer.created"
	EventInvoicePaid         = "invoice.paid"
)

// LedgerEventMessage is the wire format for every ledger event. Only the
// fields relevant to the event kind are set; consumers fetch full records
// from the database when they need them.
type LedgerEventMessage struct {
	Kind           string    `json:"kind"`
	UserID         string    `json:"userId"`
	TransactionIDs []string  `json:"transactionIds,omitempty"`
	TransferID     string    `json:"transferId,omitempty"`
	CreditCardID   string    `json:"creditCardId,omitempty"`
	InvoiceDate    string    `json:"invoiceDate,omitempty"`
	TotalAmount    int64     `json:"totalAmount,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewTransactionsCreatedMessage(userID string, ids []string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:           EventTransactionsCreated,
		UserID:         userID,
		TransactionIDs: ids,
		Timestamp:      time.Now(),
	}
}

func NewTransferCreatedMessage(userID, transferID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:       EventTransferCreated,
		UserID:     userID,
		TransferID: transferID,
		Timestamp:  time.Now(),
	}
}

func NewInvoicePaidMessage(userID, cardID string, invoiceDate time.Time, total int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:         EventInvoicePaid,
		UserID:       userID,
		CreditCardID: cardID,
		InvoiceDate:  invoiceDate.Format("2006-01-02"),
		TotalAmount:  total,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
