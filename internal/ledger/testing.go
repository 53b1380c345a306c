package ledger

import "context"

// SeedBalance is a test helper that overwrites a user's stored balance. Tests
// use it to put accounts into a known funding state without going through
// registration defaults.
func SeedBalance(ctx context.Context, users UserStore, id string, amount int64) error {
	user, err := users.Get(ctx, id)
	if err != nil {
		return err
	}
	user.Balance = amount
	return users.Save(ctx, user)
}
