package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/giveloop/giveloop/internal/directory"
)

var (
	// ErrInsufficientFunds occurs when the sender's balance cannot cover a
	// requested transfer amount. No mutation is performed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount occurs when a transfer amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTransferNotFound indicates the referenced transfer id is unknown.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrAlreadyResolved guards against double processing: the transfer has
	// already been accepted or declined and terminal states are immutable.
	ErrAlreadyResolved = errors.New("transfer already resolved")
)

const (
	// StatusPending marks a transfer awaiting the recipient's decision. The
	// sender is already debited; the funds are in flight.
	StatusPending = "pending"
	// StatusAccepted marks a transfer whose amount was credited to the recipient.
	StatusAccepted = "accepted"
	// StatusDeclined marks a transfer whose amount was refunded to the sender.
	StatusDeclined = "declined"
)

// Transfer is a proposed movement of funds between two users. Status moves
// only pending->accepted or pending->declined, exactly once.
type Transfer struct {
	ID        string    `json:"id"`
	FromUser  string    `json:"from_user"`
	ToUser    string    `json:"to_user"`
	Amount    int64     `json:"amount"`
	Purpose   string    `json:"purpose,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStore provides access to user records. The ledger is the sole writer of
// user balances after registration.
type UserStore interface {
	Get(ctx context.Context, id string) (directory.User, error)
	Save(ctx context.Context, user directory.User) error
}
