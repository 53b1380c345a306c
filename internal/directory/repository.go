package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/giveloop/giveloop/internal/kvstore"
)

// Repository persists user records through the key-value store, one JSON
// object per key, and maintains the roster index plus username reservations.
type Repository struct {
	store kvstore.Store
}

// NewRepository builds a user repository on top of the given store.
func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

// Create inserts a new user, reserving its username. The id and the
// canonicalized username must both be unused.
func (r *Repository) Create(ctx context.Context, user User) error {
	if _, err := r.store.Get(ctx, kvstore.UserKey(user.ID)); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	canonical := CanonicalUsername(user.Username)
	if _, err := r.store.Get(ctx, kvstore.UsernameKey(canonical)); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	if err := r.Save(ctx, user); err != nil {
		return err
	}
	if err := r.store.Set(ctx, kvstore.UsernameKey(canonical), []byte(user.ID)); err != nil {
		return err
	}
	return r.store.AddToIndex(ctx, kvstore.UserIndexKey, user.ID)
}

// Save overwrites the stored record for an existing user. The ledger uses it
// to persist balance mutations.
func (r *Repository) Save(ctx context.Context, user User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	return r.store.Set(ctx, kvstore.UserKey(user.ID), payload)
}

// Get loads a user record by id.
func (r *Repository) Get(ctx context.Context, id string) (User, error) {
	payload, err := r.store.Get(ctx, kvstore.UserKey(id))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return user, nil
}

// GetByUsername resolves a username reservation and loads the user.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	id, err := r.store.Get(ctx, kvstore.UsernameKey(CanonicalUsername(username)))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return r.Get(ctx, string(id))
}

// ListIDs returns all registered user ids from the roster index.
func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	return r.store.ListIndex(ctx, kvstore.UserIndexKey)
}
