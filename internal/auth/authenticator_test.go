package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/repository"
	"github.com/ashkhen/user-accounts-service/internal/utils"
)

// memUserStore is an in-memory UserStore mirroring the repository
// contract, including case-insensitive email lookup.
type memUserStore struct {
	mu    sync.Mutex
	users map[uint64]model.User
}

func newMemUserStore(users ...model.User) *memUserStore {
	s := &memUserStore{users: make(map[uint64]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) setActive(id uint64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.IsActive = active
	s.users[id] = u
}

func (s *memUserStore) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// memRevocationStore is an in-memory revocation ledger with the same
// first-writer-wins behavior as the unique index in MySQL.
type memRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemRevocationStore() *memRevocationStore {
	return &memRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *memRevocationStore) Revoke(_ context.Context, jti string, _ uint64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.revoked[jti]; ok {
		return repository.ErrAlreadyRevoked
	}
	s.revoked[jti] = expiresAt
	return nil
}

func (s *memRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

func testUser(t *testing.T, id uint64, email, password string, active bool) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{
		ID:           id,
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		IsActive:     active,
		RoleID:       1,
		Role:         "user",
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	alice := testUser(t, 1, "alice@example.com", "Password123", true)
	bob := testUser(t, 2, "bob@example.com", "Different456", true)
	sleeping := testUser(t, 3, "sleeping@example.com", "Password123", false)

	users := newMemUserStore(alice, bob, sleeping)
	codec := NewTokenCodec(strings.Repeat("s", 32), 30*time.Minute)
	a := NewAuthenticator(users, newMemRevocationStore(), codec)

	t.Run("success", func(t *testing.T) {
		token, err := a.Login(ctx, "alice@example.com", "Password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), claims.UserID)
		assert.Equal(t, "1", claims.Subject)
		assert.True(t, claims.IsActive)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("fresh jti per login", func(t *testing.T) {
		first, err := a.Login(ctx, "alice@example.com", "Password123")
		require.NoError(t, err)
		second, err := a.Login(ctx, "alice@example.com", "Password123")
		require.NoError(t, err)

		c1, err := codec.Decode(first)
		require.NoError(t, err)
		c2, err := codec.Decode(second)
		require.NoError(t, err)
		assert.NotEqual(t, c1.ID, c2.ID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := a.Login(ctx, "nobody@example.com", "Password123")
		_, errWrong := a.Login(ctx, "alice@example.com", "WrongPass1")

		require.Error(t, errUnknown)
		require.Error(t, errWrong)
		assert.Equal(t, ErrInvalidCredentials, errUnknown)
		assert.Equal(t, ErrInvalidCredentials, errWrong)
		assert.Equal(t, Message(errUnknown), Message(errWrong))
	})

	t.Run("password of another account is rejected", func(t *testing.T) {
		_, err := a.Login(ctx, "bob@example.com", "Password123")
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("inactive account is reported distinctly", func(t *testing.T) {
		_, err := a.Login(ctx, "sleeping@example.com", "Password123")
		assert.Equal(t, ErrAccountInactive, err)
	})

	t.Run("inactive account with wrong password stays generic", func(t *testing.T) {
		_, err := a.Login(ctx, "sleeping@example.com", "WrongPass1")
		assert.Equal(t, ErrInvalidCredentials, err)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	alice := testUser(t, 1, "alice@example.com", "Password123", true)
	users := newMemUserStore(alice)
	ledger := newMemRevocationStore()
	codec := NewTokenCodec(strings.Repeat("s", 32), 30*time.Minute)
	a := NewAuthenticator(users, ledger, codec)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)
	claims, err := codec.Decode(token)
	require.NoError(t, err)

	t.Run("first logout wins", func(t *testing.T) {
		require.NoError(t, a.Logout(ctx, claims))

		revoked, err := ledger.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("second logout of the same token fails", func(t *testing.T) {
		err := a.Logout(ctx, claims)
		assert.Equal(t, ErrAlreadyRevoked, err)
	})
}
