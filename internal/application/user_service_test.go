package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/session"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
)

func newUserService() (*UserService, *fakeUserTable, session.Store) {
	users := newFakeUserTable()
	sessions := session.NewMemoryStore()
	return NewUserService(users, sessions, nil, nil), users, sessions
}

func TestUserService_Register(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "alice", u.Username)
	require.True(t, helpers.CompareHashAndPassword(u.Password, "secret"), "stored password must verify against the plaintext")

	stored, err := users.Select(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, u.Password, stored.Password)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Password: "other", Email: "b@example.com"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUserService_Login(t *testing.T) {
	svc, _, sessions := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)

	token, u, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(1), u.ID)

	principal, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, *u, principal)
}

func TestUserService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, _, err = svc.Login(ctx, "nobody", "secret")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUserService_Logout(t *testing.T) {
	svc, _, sessions := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	require.False(t, ok, "logged-out token must be anonymous")

	// a token that was never issued logs out cleanly too
	require.NoError(t, svc.Logout(ctx, session.NewToken()))
}

func TestUserService_GetProfile_Missing(t *testing.T) {
	svc, _, _ := newUserService()
	_, err := svc.GetProfile(context.Background(), 42)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, users, sessions := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	u, err := svc.UpdatePassword(ctx, token, 1, "changed")
	require.NoError(t, err)
	require.True(t, helpers.CompareHashAndPassword(u.Password, "changed"))

	// only the password column may be flushed
	require.Len(t, users.updates, 1)
	require.Len(t, users.updates[0], 1)
	require.Contains(t, users.updates[0], "password")

	// the session principal is resynced with the new hash
	principal, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u.Password, principal.Password)

	// old password no longer works, new one does
	_, _, err = svc.Login(ctx, "alice", "secret")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, _, err = svc.Login(ctx, "alice", "changed")
	require.NoError(t, err)
}

func TestUserService_UpdatePassword_Missing(t *testing.T) {
	svc, _, _ := newUserService()
	_, err := svc.UpdatePassword(context.Background(), session.NewToken(), 42, "changed")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
