package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/giveloop/giveloop/internal/kvstore"
)

func setupService(t *testing.T, startingBalance int64) *Service {
	t.Helper()
	repo := NewRepository(kvstore.NewMemory())
	return NewService(repo, startingBalance)
}

func TestRegisterSeedsStartingBalance(t *testing.T) {
	svc := setupService(t, 10_000)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Phone:       "+15550001111",
		Username:    "Alice",
		DisplayName: "Alice A",
		Passcode:    "1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != "+15550001111" {
		t.Fatalf("expected phone as id, got %s", user.ID)
	}
	if user.Balance != 10_000 {
		t.Fatalf("expected starting balance 10000, got %d", user.Balance)
	}

	fetched, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Username != "Alice" || fetched.DisplayName != "Alice A" {
		t.Fatalf("unexpected profile: %+v", fetched)
	}
}

func TestRegisterWithoutPhoneGetsSyntheticToken(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "bob", Passcode: "4321"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || user.ID == "bob" {
		t.Fatalf("expected synthetic id, got %q", user.ID)
	}
	if user.DisplayName != "bob" {
		t.Fatalf("display name should default to username, got %q", user.DisplayName)
	}
}

func TestRegisterUsernameUniqueCaseInsensitive(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "Carol", Passcode: "1234"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Phone: "+2", Username: "cArOl", Passcode: "1234"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "dave", Passcode: "1234"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "other", Passcode: "1234"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "erin", Passcode: "s3cret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "+1", "s3cret"); err != nil {
		t.Fatalf("authenticate by id: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "erin", "s3cret"); err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "+1", "wrong"); err == nil {
		t.Fatal("expected authentication failure with wrong passcode")
	}
	if _, err := svc.Authenticate(ctx, "ghost", "s3cret"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLookupByUsername(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "Frank", Passcode: "1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	found, err := svc.Lookup(ctx, "frank")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != registered.ID {
		t.Fatalf("expected %s, got %s", registered.ID, found.ID)
	}
}

func TestBumpTokenVersion(t *testing.T) {
	svc := setupService(t, 0)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Phone: "+1", Username: "gail", Passcode: "1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.BumpTokenVersion(ctx, user.ID); err != nil {
		t.Fatalf("bump token version: %v", err)
	}
	updated, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version %d, got %d", user.TokenVersion+1, updated.TokenVersion)
	}
}
