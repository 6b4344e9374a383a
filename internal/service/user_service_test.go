package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  alice  ", "A@X.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email, "email is normalized to lowercase")
	assert.True(t, user.IsActive)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Empty(t, user.PasswordHash, "hash must not leave the service layer")
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@x.com", "secret1"},
		{"blank username", "   ", "a@x.com", "secret1"},
		{"empty email", "alice", "", "secret1"},
		{"empty password", "alice", "a@x.com", ""},
		{"short password", "alice", "a@x.com", "12345"},
		{"password beyond bcrypt limit", "alice", "a@x.com", strings.Repeat("p", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "someoneelse", "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists, "duplicate email")

	_, err = svc.Register(ctx, "alice", "other@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists, "duplicate username")

	_, err = svc.Register(ctx, "someoneelse", "A@X.COM ", "secret1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists, "duplicate email after normalization")

	assert.Len(t, repo.users, 1, "no extra rows created")
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "A@X.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}

// Unknown email and wrong password must be indistinguishable.
func TestAuthenticateGenericFailure(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "secret1"},
		{"wrong password", "a@x.com", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

// Missing login fields are user-correctable input, not a credentials failure.
func TestAuthenticateMissingFields(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	for _, tt := range []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret1"},
		{"empty password", "a@x.com", ""},
		{"both empty", "", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.email, tt.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	repo.users[user.ID].IsActive = false

	_, err = svc.Authenticate(ctx, "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByID(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
