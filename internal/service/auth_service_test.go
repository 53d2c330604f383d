package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/domain"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	st := newTestStore(t)
	auth := NewAuthService(st, testConfig().Auth)

	user, err := auth.Register(&domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	// Never store the plain password
	assert.NotEqual(t, "s3cret", user.HashedPassword)

	token, err := auth.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)

	resolved, err := auth.Authenticate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	st := newTestStore(t)
	auth := NewAuthService(st, testConfig().Auth)

	_, err := auth.Register(&domain.RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = auth.Register(&domain.RegisterRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestAuthService_LoginFailures(t *testing.T) {
	st := newTestStore(t)
	auth := NewAuthService(st, testConfig().Auth)

	_, err := auth.Register(&domain.RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = auth.Login("alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = auth.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	st := newTestStore(t)
	auth := NewAuthService(st, testConfig().Auth)

	_, err := auth.Authenticate("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
