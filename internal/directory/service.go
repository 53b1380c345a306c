package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages account onboarding and lookups. Balances are seeded once at
// registration; all later balance mutation belongs to the ledger.
type Service struct {
	repo            *Repository
	startingBalance int64
}

// NewService creates a directory service granting each new account the
// configured starting balance.
func NewService(repo *Repository, startingBalance int64) *Service {
	return &Service{repo: repo, startingBalance: startingBalance}
}

// RegisterInput captures data required to onboard a user.
type RegisterInput struct {
	Phone       string
	Username    string
	DisplayName string
	Passcode    string
	Role        string
	KeyType     string
}

// Register creates a user identified by phone number, or by a synthetic token
// when no phone is supplied, and reserves the username.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	if CanonicalUsername(input.Username) == "" {
		return User{}, errors.New("username is required")
	}
	if len(input.Passcode) < 4 {
		return User{}, errors.New("passcode must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Passcode), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	id := input.Phone
	if id == "" {
		id = "demo:" + uuid.NewString()
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := User{
		ID:           id,
		Username:     input.Username,
		DisplayName:  displayName,
		Role:         input.Role,
		KeyType:      input.KeyType,
		Balance:      s.startingBalance,
		PasscodeHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies a passcode against the account registered under the
// given id or username.
func (s *Service) Authenticate(ctx context.Context, idOrUsername, passcode string) (User, error) {
	user, err := s.repo.Get(ctx, idOrUsername)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.repo.GetByUsername(ctx, idOrUsername)
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasscodeHash, []byte(passcode)); err != nil {
		return User{}, errors.New("invalid passcode")
	}
	return user, nil
}

// Get loads a user profile by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// Lookup resolves a username to its profile.
func (s *Service) Lookup(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// BumpTokenVersion invalidates previously issued tokens for the user.
func (s *Service) BumpTokenVersion(ctx context.Context, id string) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	user.TokenVersion++
	return s.repo.Save(ctx, user)
}
