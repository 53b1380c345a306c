package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested key holds no record.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable indicates the backing store could not serve the request
	// (connectivity, quota, serialization). Callers treat it as fatal for the
	// operation; no automatic retry is performed.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the persistence port used by the directory and ledger. Records are
// stored one JSON object per key. Index keys hold unordered member sets and
// back the user roster and per-participant transfer listings.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error

	AddToIndex(ctx context.Context, indexKey, member string) error
	RemoveFromIndex(ctx context.Context, indexKey, member string) error
	ListIndex(ctx context.Context, indexKey string) ([]string, error)
}

// Namespace prefixes every key written by this application so that records
// remain recognizable when the store is shared or inspected directly.
const Namespace = "giveloop"

// UserKey returns the record key for a user id.
func UserKey(id string) string { return Namespace + ":user:" + id }

// UsernameKey returns the reservation key for a canonicalized username.
func UsernameKey(username string) string { return Namespace + ":username:" + username }

// TransferKey returns the record key for a transfer id.
func TransferKey(id string) string { return Namespace + ":transfer:" + id }

// UserIndexKey is the index holding all known user ids.
const UserIndexKey = Namespace + ":index:users"

// ParticipantIndexKey returns the index of transfer ids a user participates in,
// as sender or recipient.
func ParticipantIndexKey(userID string) string {
	return Namespace + ":index:transfers:" + userID
}
