package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/giveloop/giveloop/internal/kvstore"
	"github.com/giveloop/giveloop/internal/notification"
)

// Service owns user balance mutation and the transfer lifecycle. Operations
// on the same users are serialized through per-user locks so read-modify-write
// sequences cannot interleave.
type Service struct {
	store    kvstore.Store
	users    UserStore
	notifier notification.Notifier
	locks    *keyedLocks
}

// NewService builds a ledger over the persistence port. The notifier is
// optional; when nil, lifecycle events are not published.
func NewService(store kvstore.Store, users UserStore, notifier notification.Notifier) *Service {
	return &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		locks:    newKeyedLocks(),
	}
}

// CreateTransfer debits the sender immediately and records a pending transfer.
// The debit is visible before the recipient decides; a decline refunds it.
func (s *Service) CreateTransfer(ctx context.Context, fromID, toID string, amount int64, purpose string) (Transfer, error) {
	if amount <= 0 {
		return Transfer{}, ErrInvalidAmount
	}

	unlock := s.locks.acquire(fromID, toID)
	defer unlock()

	sender, err := s.users.Get(ctx, fromID)
	if err != nil {
		return Transfer{}, fmt.Errorf("sender %s: %w", fromID, err)
	}
	recipient, err := s.users.Get(ctx, toID)
	if err != nil {
		return Transfer{}, fmt.Errorf("recipient %s: %w", toID, err)
	}

	if sender.Balance < amount {
		return Transfer{}, ErrInsufficientFunds
	}

	sender.Balance -= amount
	if err := s.users.Save(ctx, sender); err != nil {
		return Transfer{}, err
	}

	now := time.Now().UTC()
	transfer := Transfer{
		ID:        uuid.NewString(),
		FromUser:  sender.ID,
		ToUser:    recipient.ID,
		Amount:    amount,
		Purpose:   purpose,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.saveTransfer(ctx, transfer); err != nil {
		// roll the debit back so a failed insert cannot strand funds
		sender.Balance += amount
		if rbErr := s.users.Save(ctx, sender); rbErr != nil {
			return Transfer{}, fmt.Errorf("persist transfer: %w (refund failed: %v)", err, rbErr)
		}
		return Transfer{}, err
	}

	for _, participant := range []string{transfer.FromUser, transfer.ToUser} {
		if err := s.store.AddToIndex(ctx, kvstore.ParticipantIndexKey(participant), transfer.ID); err != nil {
			return Transfer{}, err
		}
	}

	s.notify(ctx, notification.KindTransferRequested, transfer.ToUser, transfer)
	return transfer, nil
}

// AcceptTransfer credits the recipient and marks the transfer accepted.
func (s *Service) AcceptTransfer(ctx context.Context, id string) (Transfer, error) {
	return s.resolve(ctx, id, StatusAccepted)
}

// DeclineTransfer refunds the sender and marks the transfer declined.
func (s *Service) DeclineTransfer(ctx context.Context, id string) (Transfer, error) {
	return s.resolve(ctx, id, StatusDeclined)
}

func (s *Service) resolve(ctx context.Context, id, terminal string) (Transfer, error) {
	transfer, err := s.getTransfer(ctx, id)
	if err != nil {
		return Transfer{}, err
	}

	unlock := s.locks.acquire(transfer.FromUser, transfer.ToUser)
	defer unlock()

	// re-read under the lock; a concurrent resolution may have won
	transfer, err = s.getTransfer(ctx, id)
	if err != nil {
		return Transfer{}, err
	}
	if transfer.Status != StatusPending {
		return Transfer{}, ErrAlreadyResolved
	}

	beneficiaryID := transfer.ToUser
	kind := notification.KindTransferAccepted
	notifyUser := transfer.FromUser
	if terminal == StatusDeclined {
		beneficiaryID = transfer.FromUser
		kind = notification.KindTransferDeclined
	}

	beneficiary, err := s.users.Get(ctx, beneficiaryID)
	if err != nil {
		return Transfer{}, fmt.Errorf("beneficiary %s: %w", beneficiaryID, err)
	}
	beneficiary.Balance += transfer.Amount
	if err := s.users.Save(ctx, beneficiary); err != nil {
		return Transfer{}, err
	}

	transfer.Status = terminal
	transfer.UpdatedAt = time.Now().UTC()
	if err := s.saveTransfer(ctx, transfer); err != nil {
		// undo the credit; the transfer must stay pending if we cannot record
		// the terminal state
		beneficiary.Balance -= transfer.Amount
		if rbErr := s.users.Save(ctx, beneficiary); rbErr != nil {
			return Transfer{}, fmt.Errorf("persist transfer: %w (rollback failed: %v)", err, rbErr)
		}
		return Transfer{}, err
	}

	s.notify(ctx, kind, notifyUser, transfer)
	return transfer, nil
}

// GetTransfer loads a single transfer by id.
func (s *Service) GetTransfer(ctx context.Context, id string) (Transfer, error) {
	return s.getTransfer(ctx, id)
}

// ListPendingFor returns pending transfers awaiting the user's decision,
// oldest first.
func (s *Service) ListPendingFor(ctx context.Context, userID string) ([]Transfer, error) {
	transfers, err := s.transfersForParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := transfers[:0]
	for _, t := range transfers {
		if t.ToUser == userID && t.Status == StatusPending {
			pending = append(pending, t)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

// ListTransfersFor returns transfers the user participates in as sender or
// recipient, newest first, truncated to limit when limit > 0.
func (s *Service) ListTransfersFor(ctx context.Context, userID string, limit int) ([]Transfer, error) {
	transfers, err := s.transfersForParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].ID > transfers[j].ID
		}
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})
	if limit > 0 && len(transfers) > limit {
		transfers = transfers[:limit]
	}
	return transfers, nil
}

func (s *Service) transfersForParticipant(ctx context.Context, userID string) ([]Transfer, error) {
	ids, err := s.store.ListIndex(ctx, kvstore.ParticipantIndexKey(userID))
	if err != nil {
		return nil, err
	}

	transfers := make([]Transfer, 0, len(ids))
	for _, id := range ids {
		t, err := s.getTransfer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("indexed transfer %s: %w", id, err)
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

func (s *Service) getTransfer(ctx context.Context, id string) (Transfer, error) {
	payload, err := s.store.Get(ctx, kvstore.TransferKey(id))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return Transfer{}, ErrTransferNotFound
		}
		return Transfer{}, err
	}
	var transfer Transfer
	if err := json.Unmarshal(payload, &transfer); err != nil {
		return Transfer{}, fmt.Errorf("decode transfer %s: %w", id, err)
	}
	return transfer, nil
}

func (s *Service) saveTransfer(ctx context.Context, transfer Transfer) error {
	payload, err := json.Marshal(transfer)
	if err != nil {
		return fmt.Errorf("encode transfer %s: %w", transfer.ID, err)
	}
	return s.store.Set(ctx, kvstore.TransferKey(transfer.ID), payload)
}

func (s *Service) notify(ctx context.Context, kind, destination string, transfer Transfer) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        kind,
		Destination: destination,
		Body:        fmt.Sprintf("transfer %s for %d is %s", transfer.ID, transfer.Amount, transfer.Status),
	})
}
