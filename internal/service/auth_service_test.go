package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
)

const testJWTSecret = "test-secret"

func newAuthService(d *serviceDeps) AuthService {
	return NewAuthService(d.userRepo, testJWTSecret, d.logger)
}

func TestAuthService_Login(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newAuthService(d)
	user := d.createUser(t, "login@example.com")
	ctx := context.Background()

	t.Run("valid credentials return a signed token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		require.NotNil(t, resp.User)
		assert.Equal(t, user.ID, resp.User.ID)

		token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), claims["user_id"])
	})

	t.Run("login stamps lastLoginAt", func(t *testing.T) {
		refreshed, err := d.userRepo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, refreshed.LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "wrong-pass",
		})
		assertAppErrorCode(t, err, response.ErrCodeUnauthorized)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret-pass",
		})
		assertAppErrorCode(t, err, response.ErrCodeUnauthorized)
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		inactive := d.createUser(t, "gone@example.com")
		require.NoError(t, d.userRepo.Deactivate(ctx, inactive.ID))

		_, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "gone@example.com",
			Password: "s3cret-pass",
		})
		assertAppErrorCode(t, err, response.ErrCodeUnauthorized)
	})
}
