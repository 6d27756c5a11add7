package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("64f0c1", "doctor", "Saleem")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c1", claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "Saleem", claims.FullName)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	InitJWT("test-secret")
	token, err := GenerateJWT("64f0c1", "patient", "Ahmed")
	require.NoError(t, err)

	InitJWT("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestResetTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, jti, err := GenerateResetToken("ahmed@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	email, gotJTI, err := ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ahmed@example.com", email)
	assert.Equal(t, jti, gotJTI)
}

// A session token must not pass as a reset token: the purpose claim gates it.
func TestResetTokenRejectsSessionToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("64f0c1", "patient", "Ahmed")
	require.NoError(t, err)

	_, _, err = ValidateResetToken(token)
	assert.Error(t, err)
}

func TestResetTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")
	_, _, err := ValidateResetToken("not-a-token")
	assert.Error(t, err)
}

func TestTokensRequireConfiguredSecret(t *testing.T) {
	InitJWT("")

	_, err := GenerateJWT("64f0c1", "patient", "Ahmed")
	assert.Error(t, err)
	_, _, err = GenerateResetToken("ahmed@example.com")
	assert.Error(t, err)
}
