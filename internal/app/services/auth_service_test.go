package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
	"github.com/Aryan9inja/edu-collab/internal/pkg/auth"
)

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeTokenStore, *fakeUsernameStore, *auth.JWTService) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	usernames := newFakeUsernameStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "educollab-test",
	})
	svc := NewAuthService(users, tokens, usernames, jwtService, zerolog.Nop())
	return svc, users, tokens, usernames, jwtService
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	}
}

func TestAuthRegister(t *testing.T) {
	svc, users, tokens, _, jwtService := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	// The password is never stored in the clear
	stored, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "s3cret-pass"))

	assert.Len(t, tokens.tokens, 1)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.Name = "Other Alice"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthLogin(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthRefreshTokenRotation(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	oldToken := registered.Token.RefreshToken

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: oldToken})
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, refreshed.Token.RefreshToken)

	// The rotated-out token is dead
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: oldToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// The new one still works
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: refreshed.Token.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthRefreshTokenErrors(t *testing.T) {
	svc, _, tokens, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "no-such-token"})
		assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens.tokens[registered.Token.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
		_, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: registered.Token.RefreshToken})
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestAuthLogout(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, registered.User.ID))

	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: registered.Token.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthMe(t *testing.T) {
	svc, _, _, usernames, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	t.Run("without a handle", func(t *testing.T) {
		me, err := svc.Me(ctx, registered.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", me.Email)
		assert.Empty(t, me.Username)
	})

	t.Run("with a handle", func(t *testing.T) {
		require.NoError(t, usernames.Create(ctx, registered.User.ID, "alice_1"))
		me, err := svc.Me(ctx, registered.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice_1", me.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Me(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
