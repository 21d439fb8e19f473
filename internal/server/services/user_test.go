package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newUserService(t *testing.T, store *memStore, ttl time.Duration) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: ttl,
		BcryptCost:            bcrypt.MinCost,
	}
	return NewUserService(db, &fakeRepoManager{store: store}, cfg)
}

func assertMessage(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want kind %v, got %v", kind, err)
	got, ok := common.MessageOf(err)
	require.True(t, ok, "no client message in %v", err)
	assert.Equal(t, msg, got)
}

func TestRegister_ThenLogin(t *testing.T) {
	store := newMemStore()
	s := newUserService(t, store, time.Hour)
	ctx := context.Background()

	reg, err := s.Register(ctx, "Alice", "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, "Alice", reg.Name)
	assert.Equal(t, "alice@example.com", reg.Email)
	assert.NotEmpty(t, reg.Token)

	// the stored hash is bcrypt, never the plain password
	stored := store.users[reg.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.True(t, auth.CheckPassword("pw123456", stored.PasswordHash))

	login, err := s.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, login.ID)
	assert.NotEmpty(t, login.Token)

	user, err := s.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	cases := []struct{ name, email, password string }{
		{"", "a@b.c", "pw"},
		{"A", "", "pw"},
		{"A", "a@b.c", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		_, err := s.Register(context.Background(), c.name, c.email, c.password)
		assertMessage(t, err, common.ErrValidation, MsgRegisterFieldsRequired)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	_, err := s.Register(context.Background(), "A", "a@b.c", strings.Repeat("x", auth.MaxPasswordBytes+1))
	assertMessage(t, err, common.ErrValidation, MsgPasswordTooLong)
}

func TestRegister_Duplicate(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "first")
	require.NoError(t, err)

	_, err = s.Register(ctx, "Other", "alice@example.com", "second")
	assertMessage(t, err, common.ErrAlreadyExists, MsgUserExists)

	_, err = s.Register(ctx, "Alice", "alice@example.com", "first")
	assertMessage(t, err, common.ErrAlreadyExists, MsgUserExists)
}

// raceManager hides existing users from the lookup so Create is the one
// that notices the duplicate, as when two registrations race.
type raceManager struct{ fakeRepoManager }

func (m *raceManager) Users(dbx.DBTX) users.Repository {
	return &raceUsersRepo{fakeUsersRepo{m.store}}
}

type raceUsersRepo struct{ fakeUsersRepo }

func (r *raceUsersRepo) GetByEmail(context.Context, string, bool) (*models.User, error) {
	return nil, common.ErrorNotFound
}

func TestRegister_DuplicateCaughtByStore(t *testing.T) {
	store := newMemStore()
	store.users["u1"] = &models.User{ID: "u1", Name: "A", Email: "dup@example.com"}

	s := newUserService(t, store, time.Hour)
	s.repomanager = &raceManager{fakeRepoManager{store: store}}

	_, err := s.Register(context.Background(), "B", "dup@example.com", "pw")
	assertMessage(t, err, common.ErrAlreadyExists, MsgUserExists)
}

func TestRegister_StoreFailure(t *testing.T) {
	store := newMemStore()
	store.usersErr = errors.New("db down")
	s := newUserService(t, store, time.Hour)

	_, err := s.Register(context.Background(), "A", "a@b.c", "pw")
	require.Error(t, err)
	_, ok := common.MessageOf(err)
	assert.False(t, ok, "store failures carry no client message")
	assert.False(t, errors.Is(err, common.ErrValidation))
}

func TestLogin_Validation(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	for _, c := range [][2]string{{"", "pw"}, {"a@b.c", ""}} {
		_, err := s.Login(context.Background(), c[0], c[1])
		assertMessage(t, err, common.ErrValidation, MsgLoginFieldsRequired)
	}
}

func TestLogin_SameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "right")
	require.NoError(t, err)

	_, errWrongPw := s.Login(ctx, "alice@example.com", "wrong")
	_, errUnknown := s.Login(ctx, "nobody@example.com", "right")

	assertMessage(t, errWrongPw, common.ErrorUnauthorized, MsgInvalidCredentials)
	assertMessage(t, errUnknown, common.ErrorUnauthorized, MsgInvalidCredentials)
	assert.Equal(t, errWrongPw.Error(), errUnknown.Error())
}

func TestLogin_EmailIsCaseSensitive(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "Alice@Example.com", "pw")
	assertMessage(t, err, common.ErrorUnauthorized, MsgInvalidCredentials)
}

func TestAuthenticate_Failures(t *testing.T) {
	store := newMemStore()
	s := newUserService(t, store, time.Hour)
	ctx := context.Background()

	reg, err := s.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "")
		assertMessage(t, err, common.ErrorUnauthorized, MsgNotAuthorized)
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(reg.Token, ".")
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tok := parts[0] + "." + parts[1] + "." + string(sig)
		_, err := s.Authenticate(ctx, tok)
		assertMessage(t, err, common.ErrorUnauthorized, MsgNotAuthorized)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := auth.GenerateToken(reg.ID, []byte(testSecret), -time.Second)
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assertMessage(t, err, common.ErrorUnauthorized, MsgNotAuthorized)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		tok, err := auth.GenerateToken(reg.ID, []byte("other"), time.Hour)
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("user deleted", func(t *testing.T) {
		delete(store.users, reg.ID)
		_, err := s.Authenticate(ctx, reg.Token)
		assertMessage(t, err, common.ErrorUnauthorized, MsgNotAuthorized)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestAuthenticate_StoreFailureIsNotUnauthorized(t *testing.T) {
	store := newMemStore()
	s := newUserService(t, store, time.Hour)

	tok, err := auth.GenerateToken("u1", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	store.usersErr = errors.New("db down")
	_, err = s.Authenticate(context.Background(), tok)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestCurrentUser(t *testing.T) {
	s := newUserService(t, newMemStore(), time.Hour)

	u := &models.User{ID: "u1", Name: "A", Email: "a@b.c"}
	got, err := s.CurrentUser(u)
	require.NoError(t, err)
	assert.Same(t, u, got)

	_, err = s.CurrentUser(nil)
	assertMessage(t, err, common.ErrorUnauthorized, MsgNotAuthorized)
}
