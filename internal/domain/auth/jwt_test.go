package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken(appctx.UserContext{
		UserID:    "op-7",
		Name:      "Karim",
		Roles:     []string{RoleOperator},
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "op-7", user.UserID)
	assert.Equal(t, "Karim", user.Name)
	assert.Equal(t, []string{RoleOperator}, user.Roles)
	assert.Equal(t, "s1", user.SessionID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	token, _, err := svc.GenerateAccessToken(appctx.UserContext{UserID: "op-7"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(DefaultJWTConfig("other-secret"))
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewJWTService(DefaultJWTConfig("test-secret"))
		late.now = func() time.Time { return time.Now().Add(13 * time.Hour) }
		_, err := late.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := DefaultJWTConfig("test-secret")
		cfg.Issuer = "elsewhere"
		_, err := NewJWTService(cfg).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
