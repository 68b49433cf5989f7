package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

// Descriptions stamped on the two legs of a transfer.
const (
	TransferOutDescription = "Transferência saída"
	TransferInDescription  = "Transferência entrada"
)

// TransferService moves money between two accounts of the same user by
// writing a linked pair of transactions.
type TransferService struct {
	store  Store
	events EventPublisher
}

func NewTransferService(store Store, events EventPublisher) *TransferService {
	return &TransferService{store: store, events: events}
}

// TransferInput is a request to move Amount cents out of SourceAccountID
// and into TargetAccountID on DueDate.
type TransferInput struct {
	UserID          string
	SourceAccountID string
	TargetAccountID string
	Amount          int64
	DueDate         time.Time
	Observations    string
}

// Create writes the outgoing and incoming legs atomically, both settled
// immediately and linked by a shared transfer id. A transfer cannot be
// dated in the future: it represents money that already moved.
func (s *TransferService) Create(ctx context.Context, in TransferInput, now time.Time) ([]core.Transaction, error) {
	if err := core.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	ok, err := s.store.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, core.ErrUserNotFound
	}
	if in.SourceAccountID == in.TargetAccountID {
		return nil, core.ErrSameAccountTransfer
	}
	if _, err := s.store.GetAccount(ctx, in.UserID, in.SourceAccountID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, in.UserID, in.TargetAccountID); err != nil {
		return nil, err
	}
	if in.DueDate.After(now) {
		return nil, core.ErrFutureDatedTransfer
	}

	transferID := uuid.NewString()
	out := core.Transaction{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		AccountID:       in.SourceAccountID,
		TargetAccountID: in.TargetAccountID,
		Description:     TransferOutDescription,
		Observations:    in.Observations,
		Amount:          in.Amount,
		Type:            core.TransactionTransferOut,
		DueDate:         in.DueDate,
		Effectived:      true,
		TransferID:      transferID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	rcv := core.Transaction{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		AccountID:       in.TargetAccountID,
		TargetAccountID: in.SourceAccountID,
		Description:     TransferInDescription,
		Observations:    in.Observations,
		Amount:          in.Amount,
		Type:            core.TransactionTransferIn,
		DueDate:         in.DueDate,
		Effectived:      true,
		TransferID:      transferID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	pair := []core.Transaction{out, rcv}
	if err := s.store.InsertTransactions(ctx, pair); err != nil {
		return nil, fmt.Errorf("insert transfer pair: %w", err)
	}

	slog.InfoContext(ctx, "Transfer created",
		"userId", in.UserID, "transferId", transferID,
		"sourceAccountId", in.SourceAccountID, "targetAccountId", in.TargetAccountID,
		"amount", in.Amount)
	if s.events != nil {
		if err := s.events.PublishTransferCreated(ctx, in.UserID, transferID); err != nil {
			slog.WarnContext(ctx, "Failed to publish transfer created event", "error", err)
		}
	}
	return pair, nil
}
