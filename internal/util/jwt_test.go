package util

import (
	"testing"

	"github.com/kidiezyllex/street-sneaker-sub002/config"
	"github.com/stretchr/testify/assert"
)

// TestTokenRoundTrip 生成的令牌可以被校验并取出账户ID
func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	accountID, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, accountID)
}

// TestRefreshToken 刷新后的新令牌保留原账户ID
func TestRefreshToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42)
	assert.NoError(t, err)

	newToken, err := RefreshToken(token)
	assert.NoError(t, err)
	assert.NotEmpty(t, newToken)

	accountID, err := ValidateToken(newToken)
	assert.NoError(t, err)
	assert.Equal(t, 42, accountID)
}

// TestRefreshTokenInvalid 非法令牌不能刷新
func TestRefreshTokenInvalid(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := RefreshToken("not-a-token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}
