package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	signed, err := Generate("user123", "publisher", "testsecret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := Validate(signed, "testsecret")
	require.NoError(t, err)
	require.Equal(t, "user123", claims.UserID)
	require.Equal(t, "publisher", claims.Role)
	require.Equal(t, "user123", claims.Subject)
}

func TestValidateWrongSecret(t *testing.T) {
	signed, err := Generate("user123", "user", "testsecret", time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, "othersecret")
	require.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	signed, err := Generate("user123", "user", "testsecret", -time.Minute)
	require.NoError(t, err)

	_, err = Validate(signed, "testsecret")
	require.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	_, err := Validate("not-a-token", "testsecret")
	require.Error(t, err)
}
