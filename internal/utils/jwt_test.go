package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("64f1c0ffee0000000000abcd", "patient")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0ffee0000000000abcd", claims.UserID)
	assert.Equal(t, "patient", claims.Role)

	// 30-day validity
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, TokenValidity.Hours(), remaining.Hours(), 1)
}

func TestValidateJWT_RejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("64f1c0ffee0000000000abcd", "provider")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestValidateJWT_RejectsForeignSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	token, err := GenerateJWT("64f1c0ffee0000000000abcd", "patient")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
