package utils_test

import (
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTillTokenRoundTrip(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := utils.IssueTillToken("cashier-7", "s3cret", "sote-minimart", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	cashierID, err := utils.ParseTillToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "cashier-7", cashierID)
}

func TestParseTillToken_Rejects(t *testing.T) {
	now := time.Now()
	valid, _, err := utils.IssueTillToken("cashier-7", "s3cret", "sote-minimart", time.Hour, now)
	require.NoError(t, err)
	expired, _, err := utils.IssueTillToken("cashier-7", "s3cret", "sote-minimart", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	noSubject, _, err := utils.IssueTillToken("", "s3cret", "sote-minimart", time.Hour, now)
	require.NoError(t, err)

	_, err = utils.ParseTillToken(valid, "other")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = utils.ParseTillToken(expired, "s3cret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = utils.ParseTillToken(noSubject, "s3cret")
	assert.ErrorIs(t, err, utils.ErrMissingSubject)

	_, err = utils.ParseTillToken("not-a-token", "s3cret")
	assert.Error(t, err)
}

func TestPINMatches(t *testing.T) {
	hash, err := utils.HashPIN("4821")
	require.NoError(t, err)
	assert.True(t, utils.PINMatches("4821", hash))
	assert.False(t, utils.PINMatches("4822", hash))
	assert.False(t, utils.PINMatches("4821", ""))
}
